package models

import "time"

// LapRecord is one timed lap. LapTimeMs is zero when no time was recorded.
type LapRecord struct {
	Season     int         `gorm:"column:season;primaryKey" json:"season"`
	Round      int         `gorm:"column:round;primaryKey" json:"round"`
	Session    SessionType `gorm:"column:session;primaryKey" json:"session"`
	DriverCode string      `gorm:"column:driver_code;primaryKey" json:"driver_code"`
	LapNumber  int         `gorm:"column:lap_number;primaryKey" json:"lap_number"`
	LapTimeMs  int64       `gorm:"column:lap_time_ms" json:"lap_time_ms"`
	PitIn      bool        `gorm:"column:pit_in" json:"pit_in"`
	PitOut     bool        `gorm:"column:pit_out" json:"pit_out"`
	Deleted    bool        `gorm:"column:deleted" json:"deleted"`
}

func (LapRecord) TableName() string { return "session_laps" }

func (l LapRecord) LapTime() time.Duration {
	return time.Duration(l.LapTimeMs) * time.Millisecond
}
