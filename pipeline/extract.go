package pipeline

import (
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// QualifyingPosition is the driver's numeric qualifying classification.
// It is absent when qualifying is missing or the driver set no time.
func QualifyingPosition(quali []Result, driver string) Maybe[float64] {
	for _, r := range quali {
		if r.Record.DriverCode != driver {
			continue
		}
		if !r.Valid() || !r.Classified {
			return None[float64]()
		}
		return Some(float64(r.Finish))
	}
	return None[float64]()
}

// qualifyingError returns the first malformed qualifying record of driver.
// Status codes such as "DNS" are not malformed.
func qualifyingError(quali []Result, driver string) error {
	for _, r := range quali {
		if r.Record.DriverCode == driver && !r.Valid() {
			return r.Err
		}
	}
	return nil
}

func validLap(l models.LapRecord) bool {
	return l.LapTimeMs > 0 && !l.PitIn && !l.PitOut && !l.Deleted
}

// PracticePaceGaps returns, per driver with at least one valid lap, the
// percentage gap of their best lap to the session's best lap.
func PracticePaceGaps(laps []models.LapRecord) map[string]float64 {
	best := make(map[string]int64)
	for _, l := range laps {
		if !validLap(l) || l.DriverCode == "" {
			continue
		}
		if b, ok := best[l.DriverCode]; !ok || l.LapTimeMs < b {
			best[l.DriverCode] = l.LapTimeMs
		}
	}

	var field int64
	for _, b := range best {
		if field == 0 || b < field {
			field = b
		}
	}

	gaps := make(map[string]float64, len(best))
	for d, b := range best {
		gaps[d] = float64(b-field) / float64(field) * 100
	}
	return gaps
}

// PracticePaceGap looks up one driver's gap from PracticePaceGaps.
func PracticePaceGap(gaps map[string]float64, driver string) Maybe[float64] {
	g, ok := gaps[driver]
	if !ok {
		return None[float64]()
	}
	return Some(g)
}

// WetRace reports rain in any sample. No samples means dry.
func WetRace(samples []models.WeatherSample) bool {
	for _, s := range samples {
		if s.Rainfall > 0 {
			return true
		}
	}
	return false
}
