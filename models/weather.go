package models

import "time"

type WeatherSample struct {
	Season    int         `gorm:"column:season;primaryKey" json:"season"`
	Round     int         `gorm:"column:round;primaryKey" json:"round"`
	Session   SessionType `gorm:"column:session;primaryKey" json:"session"`
	TS        time.Time   `gorm:"column:ts;primaryKey" json:"ts"`
	Rainfall  float64     `gorm:"column:rainfall" json:"rainfall"`
	AirTemp   float64     `gorm:"column:air_temp" json:"air_temp"`
	TrackTemp float64     `gorm:"column:track_temp" json:"track_temp"`
}

func (WeatherSample) TableName() string { return "session_weather" }
