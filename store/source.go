// Package store provides read access to locally cached session records.
package store

import (
	"context"
	"errors"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// ErrSessionNotFound is returned when a session (or a season calendar) has no
// records in the store.
var ErrSessionNotFound = errors.New("session not found")

// Source is the read contract of the session record store.
type Source interface {
	Events(ctx context.Context, season int) ([]models.Event, error)
	Results(ctx context.Context, key models.SessionKey) ([]models.ResultRecord, error)
	Laps(ctx context.Context, key models.SessionKey) ([]models.LapRecord, error)
	Weather(ctx context.Context, key models.SessionKey) ([]models.WeatherSample, error)
}
