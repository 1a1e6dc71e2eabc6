package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// Columns is the CSV column order of the feature table.
var Columns = []string{
	"season", "round", "circuit", "driver", "team", "track_type",
	"qualifying_position", "practice_pace_gap", "wet_race",
	"driver_points_before", "constructor_points_before",
	"avg_finish_at_circuit", "avg_finish_trailing",
	"label", "split",
}

// Row is one driver's features for one race.
type Row struct {
	Season    int
	Round     int
	Circuit   CircuitID
	Driver    string
	Team      string
	TrackType TrackType

	QualifyingPosition      float64
	PracticePaceGap         float64
	WetRace                 bool
	DriverPointsBefore      float64
	ConstructorPointsBefore float64
	AvgFinishAtCircuit      float64
	AvgFinishTrailing       float64

	// Label is the finishing position, DNFPosition for non-finishers.
	Label int
	Split Split
	// Imputed lists the features filled by the imputation policy.
	Imputed []Feature
}

func (r Row) record() []string {
	wet := "0"
	if r.WetRace {
		wet = "1"
	}
	return []string{
		strconv.Itoa(r.Season),
		strconv.Itoa(r.Round),
		string(r.Circuit),
		r.Driver,
		r.Team,
		string(r.TrackType),
		formatFloat(r.QualifyingPosition),
		formatFloat(r.PracticePaceGap),
		wet,
		formatFloat(r.DriverPointsBefore),
		formatFloat(r.ConstructorPointsBefore),
		formatFloat(r.AvgFinishAtCircuit),
		formatFloat(r.AvgFinishTrailing),
		strconv.Itoa(r.Label),
		string(r.Split),
	}
}

// Model converts the row to its persisted form.
func (r Row) Model(runID string) models.FeatureRow {
	return models.FeatureRow{
		Season:                  r.Season,
		Round:                   r.Round,
		DriverCode:              r.Driver,
		Circuit:                 string(r.Circuit),
		Team:                    r.Team,
		TrackType:               string(r.TrackType),
		QualifyingPosition:      r.QualifyingPosition,
		PracticePaceGap:         r.PracticePaceGap,
		WetRace:                 r.WetRace,
		DriverPointsBefore:      r.DriverPointsBefore,
		ConstructorPointsBefore: r.ConstructorPointsBefore,
		AvgFinishAtCircuit:      r.AvgFinishAtCircuit,
		AvgFinishTrailing:       r.AvgFinishTrailing,
		Label:                   r.Label,
		Split:                   string(r.Split),
		RunID:                   runID,
	}
}

// Table is the output of one assembly run.
type Table struct {
	Rows     []Row
	Manifest Manifest
}

// WriteCSV writes the header and every row. Output depends only on the rows,
// so identical snapshots give identical bytes.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *Table) WriteManifest(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Manifest)
}
