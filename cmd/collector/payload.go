package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/store"
)

const (
	kindEvent   = "event"
	kindResult  = "result"
	kindLap     = "lap"
	kindWeather = "weather"
)

// SessionPayload is one session record as published by the retrieval job.
// Kind selects which of the other fields are meaningful.
type SessionPayload struct {
	Kind    string `json:"kind"`
	Season  int    `json:"season"`
	Round   int    `json:"round"`
	Session string `json:"session"`

	Circuit string `json:"circuit,omitempty"`
	Name    string `json:"name,omitempty"`

	DriverCode string  `json:"driver_code,omitempty"`
	Team       string  `json:"team,omitempty"`
	Position   string  `json:"position,omitempty"`
	Points     float64 `json:"points,omitempty"`

	LapNumber int   `json:"lap_number,omitempty"`
	LapTimeMs int64 `json:"lap_time_ms,omitempty"`
	PitIn     bool  `json:"pit_in,omitempty"`
	PitOut    bool  `json:"pit_out,omitempty"`
	Deleted   bool  `json:"deleted,omitempty"`

	TS        string  `json:"ts,omitempty"`
	Rainfall  float64 `json:"rainfall,omitempty"`
	AirTemp   float64 `json:"air_temp,omitempty"`
	TrackTemp float64 `json:"track_temp,omitempty"`
}

var errMissingField = errors.New("missing required field")

func (p SessionPayload) validate() error {
	if p.Season < 1950 || p.Round < 1 {
		return fmt.Errorf("%w: season and round", errMissingField)
	}
	switch p.Kind {
	case kindEvent:
		if p.Circuit == "" {
			return fmt.Errorf("%w: circuit", errMissingField)
		}
		return nil
	case kindResult, kindLap, kindWeather:
	default:
		return fmt.Errorf("unknown kind %q", p.Kind)
	}

	if !models.SessionType(p.Session).Valid() {
		return fmt.Errorf("unknown session %q", p.Session)
	}
	switch p.Kind {
	case kindResult:
		if p.DriverCode == "" {
			return fmt.Errorf("%w: driver_code", errMissingField)
		}
	case kindLap:
		if p.DriverCode == "" || p.LapNumber < 1 {
			return fmt.Errorf("%w: driver_code and lap_number", errMissingField)
		}
		if p.LapTimeMs < 0 {
			return fmt.Errorf("negative lap time %d", p.LapTimeMs)
		}
	case kindWeather:
		if p.TS == "" {
			return fmt.Errorf("%w: ts", errMissingField)
		}
		if _, err := time.Parse(time.RFC3339, p.TS); err != nil {
			return fmt.Errorf("invalid ts: %w", err)
		}
	}
	return nil
}

func decodePayload(raw []byte) (SessionPayload, error) {
	var p SessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("invalid payload: %w", err)
	}
	return p, p.validate()
}

func storePayload(ctx context.Context, w store.Writer, p SessionPayload) error {
	session := models.SessionType(p.Session)
	switch p.Kind {
	case kindEvent:
		return w.InsertEvent(ctx, models.Event{Season: p.Season, Round: p.Round, Circuit: p.Circuit, Name: p.Name})
	case kindResult:
		return w.InsertResult(ctx, models.ResultRecord{
			Season: p.Season, Round: p.Round, Session: session,
			DriverCode: p.DriverCode, Team: p.Team, Position: p.Position, Points: p.Points,
		})
	case kindLap:
		return w.InsertLap(ctx, models.LapRecord{
			Season: p.Season, Round: p.Round, Session: session,
			DriverCode: p.DriverCode, LapNumber: p.LapNumber, LapTimeMs: p.LapTimeMs,
			PitIn: p.PitIn, PitOut: p.PitOut, Deleted: p.Deleted,
		})
	default:
		ts, _ := time.Parse(time.RFC3339, p.TS)
		return w.InsertWeather(ctx, models.WeatherSample{
			Season: p.Season, Round: p.Round, Session: session, TS: ts.UTC(),
			Rainfall: p.Rainfall, AirTemp: p.AirTemp, TrackTemp: p.TrackTemp,
		})
	}
}

func processMessage(ctx context.Context, w store.Writer, raw []byte) bool {
	msgsReceived.Inc()

	p, err := decodePayload(raw)
	if err != nil {
		msgsFailed.Inc()
		log.Printf("rejected payload: %v", err)
		return false
	}
	if err := storePayload(ctx, w, p); err != nil {
		msgsFailed.Inc()
		log.Printf("db insert failed: %v", err)
		return false
	}
	recordsStored.WithLabelValues(p.Kind).Inc()
	return true
}
