package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// Writer accepts session records. Inserts of records already present are
// ignored.
type Writer interface {
	InsertEvent(ctx context.Context, e models.Event) error
	InsertResult(ctx context.Context, r models.ResultRecord) error
	InsertLap(ctx context.Context, l models.LapRecord) error
	InsertWeather(ctx context.Context, w models.WeatherSample) error
}

var sessionTypes = []models.SessionType{
	models.SessionFP1, models.SessionFP2, models.SessionFP3, models.SessionQualifying, models.SessionRace,
}

// MirrorStats counts what Mirror copied.
type MirrorStats struct {
	Events  int
	Results int
	Laps    int
	Weather int
}

// Mirror copies every record of the given seasons from src into dst. Missing
// seasons and sessions are skipped.
func Mirror(ctx context.Context, dst Writer, src Source, seasons []int) (MirrorStats, error) {
	var st MirrorStats
	for _, season := range seasons {
		events, err := src.Events(ctx, season)
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return st, err
		}
		for _, e := range events {
			if err := dst.InsertEvent(ctx, e); err != nil {
				return st, fmt.Errorf("insert event %d-%02d: %w", e.Season, e.Round, err)
			}
			st.Events++
			for _, t := range sessionTypes {
				key := models.SessionKey{Season: e.Season, Round: e.Round, Type: t}
				if err := mirrorSession(ctx, dst, src, key, &st); err != nil {
					return st, err
				}
			}
		}
	}
	return st, nil
}

func mirrorSession(ctx context.Context, dst Writer, src Source, key models.SessionKey, st *MirrorStats) error {
	results, err := src.Results(ctx, key)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	for _, r := range results {
		if err := dst.InsertResult(ctx, r); err != nil {
			return fmt.Errorf("insert result %s: %w", key, err)
		}
		st.Results++
	}

	laps, err := src.Laps(ctx, key)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	for _, l := range laps {
		if err := dst.InsertLap(ctx, l); err != nil {
			return fmt.Errorf("insert lap %s: %w", key, err)
		}
		st.Laps++
	}

	weather, err := src.Weather(ctx, key)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	for _, w := range weather {
		if err := dst.InsertWeather(ctx, w); err != nil {
			return fmt.Errorf("insert weather %s: %w", key, err)
		}
		st.Weather++
	}
	return nil
}
