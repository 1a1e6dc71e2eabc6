package models

import "time"

// FeatureRow is the persisted form of one assembled driver/race row.
type FeatureRow struct {
	Season                  int     `gorm:"column:season;primaryKey" json:"season"`
	Round                   int     `gorm:"column:round;primaryKey" json:"round"`
	DriverCode              string  `gorm:"column:driver_code;primaryKey" json:"driver_code"`
	Circuit                 string  `gorm:"column:circuit" json:"circuit"`
	Team                    string  `gorm:"column:team" json:"team"`
	TrackType               string  `gorm:"column:track_type" json:"track_type"`
	QualifyingPosition      float64 `gorm:"column:qualifying_position" json:"qualifying_position"`
	PracticePaceGap         float64 `gorm:"column:practice_pace_gap" json:"practice_pace_gap"`
	WetRace                 bool    `gorm:"column:wet_race" json:"wet_race"`
	DriverPointsBefore      float64 `gorm:"column:driver_points_before" json:"driver_points_before"`
	ConstructorPointsBefore float64 `gorm:"column:constructor_points_before" json:"constructor_points_before"`
	AvgFinishAtCircuit      float64 `gorm:"column:avg_finish_at_circuit" json:"avg_finish_at_circuit"`
	AvgFinishTrailing       float64 `gorm:"column:avg_finish_trailing" json:"avg_finish_trailing"`
	Label                   int     `gorm:"column:label" json:"label"`
	Split                   string  `gorm:"column:split;index" json:"split"`
	RunID                   string  `gorm:"column:run_id" json:"run_id"`
}

func (FeatureRow) TableName() string { return "driver_race_features" }

// FeatureRun records one pipeline run and its manifest.
type FeatureRun struct {
	RunID     string    `gorm:"column:run_id;primaryKey" json:"run_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	Rows      int       `gorm:"column:rows" json:"rows"`
	Manifest  string    `gorm:"column:manifest" json:"manifest"`
}

func (FeatureRun) TableName() string { return "feature_runs" }
