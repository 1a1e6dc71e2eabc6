package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/store"
)

// Weekend holds every record of one race weekend that features may read.
type Weekend struct {
	Season      int
	Round       int
	Name        string
	CircuitName string
	Circuit     CircuitID

	Race    []Result
	HasRace bool

	Qualifying    []Result
	HasQualifying bool

	// PracticeSession is the session the laps came from, empty if none.
	PracticeSession models.SessionType
	PracticeLaps    []models.LapRecord

	Weather []models.WeatherSample
}

// Before reports whether w ran strictly before (season, round).
func (w *Weekend) Before(season, round int) bool {
	return w.Season < season || (w.Season == season && w.Round < round)
}

// MissingSession is one store lookup that found nothing.
type MissingSession struct {
	Key     models.SessionKey `json:"key"`
	Records string            `json:"records"`
}

func (m MissingSession) String() string { return m.Key.String() + "/" + m.Records }

// Snapshot is the immutable in-memory record set the pipeline runs on.
type Snapshot struct {
	weekends []*Weekend
	// Missing lists sessions the store could not provide.
	Missing []MissingSession
	// MissingSeasons lists seasons without a calendar.
	MissingSeasons []int
}

// NewSnapshot orders weekends chronologically.
func NewSnapshot(weekends ...*Weekend) *Snapshot {
	ws := append([]*Weekend(nil), weekends...)
	sort.Slice(ws, func(i, j int) bool { return ws[i].Before(ws[j].Season, ws[j].Round) })
	return &Snapshot{weekends: ws}
}

// Weekends returns all weekends in chronological order.
func (s *Snapshot) Weekends() []*Weekend { return s.weekends }

// Season returns the weekends of one season in round order.
func (s *Snapshot) Season(season int) []*Weekend {
	var out []*Weekend
	for _, w := range s.weekends {
		if w.Season == season {
			out = append(out, w)
		}
	}
	return out
}

// LoadSnapshot reads every needed session of the given seasons from src.
// Sessions the store does not have are recorded in Missing; any other store
// error aborts the load. practice lists the sessions tried, in order, for
// practice laps.
func LoadSnapshot(ctx context.Context, src store.Source, seasons []int, practice []models.SessionType) (*Snapshot, error) {
	var weekends []*Weekend
	var missing []MissingSession
	var missingSeasons []int

	for _, season := range seasons {
		events, err := src.Events(ctx, season)
		if errors.Is(err, store.ErrSessionNotFound) {
			missingSeasons = append(missingSeasons, season)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load calendar %d: %w", season, err)
		}

		for _, ev := range events {
			w, miss, err := loadWeekend(ctx, src, ev, practice)
			if err != nil {
				return nil, err
			}
			weekends = append(weekends, w)
			missing = append(missing, miss...)
		}
	}

	snap := NewSnapshot(weekends...)
	snap.Missing = missing
	snap.MissingSeasons = missingSeasons
	return snap, nil
}

func loadWeekend(ctx context.Context, src store.Source, ev models.Event, practice []models.SessionType) (*Weekend, []MissingSession, error) {
	w := &Weekend{
		Season:      ev.Season,
		Round:       ev.Round,
		Name:        ev.Name,
		CircuitName: ev.Circuit,
		Circuit:     NewCircuitID(ev.Circuit),
	}
	var missing []MissingSession
	key := func(t models.SessionType) models.SessionKey {
		return models.SessionKey{Season: ev.Season, Round: ev.Round, Type: t}
	}

	race, err := src.Results(ctx, key(models.SessionRace))
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		missing = append(missing, MissingSession{Key: key(models.SessionRace), Records: "results"})
	case err != nil:
		return nil, nil, fmt.Errorf("load race %s: %w", key(models.SessionRace), err)
	default:
		w.Race, w.HasRace = parseResults(race), true
	}

	quali, err := src.Results(ctx, key(models.SessionQualifying))
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		missing = append(missing, MissingSession{Key: key(models.SessionQualifying), Records: "results"})
	case err != nil:
		return nil, nil, fmt.Errorf("load qualifying %s: %w", key(models.SessionQualifying), err)
	default:
		w.Qualifying, w.HasQualifying = parseResults(quali), true
	}

	for _, t := range practice {
		laps, err := src.Laps(ctx, key(t))
		if errors.Is(err, store.ErrSessionNotFound) {
			missing = append(missing, MissingSession{Key: key(t), Records: "laps"})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("load laps %s: %w", key(t), err)
		}
		w.PracticeSession, w.PracticeLaps = t, laps
		break
	}

	weather, err := src.Weather(ctx, key(models.SessionRace))
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		missing = append(missing, MissingSession{Key: key(models.SessionRace), Records: "weather"})
	case err != nil:
		return nil, nil, fmt.Errorf("load weather %s: %w", key(models.SessionRace), err)
	default:
		w.Weather = weather
	}

	return w, missing, nil
}
