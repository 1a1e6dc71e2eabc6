package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

func seedMemory() *Memory {
	m := NewMemory()
	m.AddEvent(models.Event{Season: 2023, Round: 2, Circuit: "Jeddah", Name: "Saudi Arabian Grand Prix"})
	m.AddEvent(models.Event{Season: 2023, Round: 1, Circuit: "Sakhir", Name: "Bahrain Grand Prix"})
	m.AddResults(
		models.ResultRecord{Season: 2023, Round: 1, Session: models.SessionRace, DriverCode: "VER", Team: "Red Bull Racing", Position: "1", Points: 25},
		models.ResultRecord{Season: 2023, Round: 1, Session: models.SessionRace, DriverCode: "LEC", Team: "Ferrari", Position: "R", Points: 0},
		models.ResultRecord{Season: 2023, Round: 1, Session: models.SessionQualifying, DriverCode: "VER", Team: "Red Bull Racing", Position: "1"},
	)
	m.AddLaps(
		models.LapRecord{Season: 2023, Round: 1, Session: models.SessionFP3, DriverCode: "VER", LapNumber: 1, LapTimeMs: 92000, PitOut: true},
		models.LapRecord{Season: 2023, Round: 1, Session: models.SessionFP3, DriverCode: "VER", LapNumber: 2, LapTimeMs: 91234},
	)
	m.AddWeather(models.WeatherSample{
		Season: 2023, Round: 1, Session: models.SessionRace,
		TS: time.Date(2023, 3, 5, 15, 0, 0, 0, time.UTC), Rainfall: 0, AirTemp: 27.5, TrackTemp: 33.1,
	})
	return m
}

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	m := seedMemory()

	events, err := m.Events(ctx, 2023)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, 1, events[0].Round, "events come back in round order")

	_, err = m.Events(ctx, 2019)
	require.ErrorIs(t, err, ErrSessionNotFound)

	results, err := m.Results(ctx, models.SessionKey{Season: 2023, Round: 1, Type: models.SessionRace})
	require.NoError(t, err)
	require.Len(t, results, 2)

	_, err = m.Results(ctx, models.SessionKey{Season: 2023, Round: 2, Type: models.SessionRace})
	require.ErrorIs(t, err, ErrSessionNotFound)

	laps, err := m.Laps(ctx, models.SessionKey{Season: 2023, Round: 1, Type: models.SessionFP3})
	require.NoError(t, err)
	require.Equal(t, 91234*time.Millisecond, laps[1].LapTime())

	_, err = m.Weather(ctx, models.SessionKey{Season: 2023, Round: 1, Type: models.SessionFP1})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := seedMemory()
	key := models.SessionKey{Season: 2023, Round: 1, Type: models.SessionRace}

	results, err := m.Results(ctx, key)
	require.NoError(t, err)
	results[0].Points = 1000

	again, err := m.Results(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 25.0, again[0].Points)
}

func TestSQLiteMirror(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(filepath.Join(t.TempDir(), "cache", "sessions.db"))
	require.NoError(t, err)
	defer db.Close()

	stats, err := Mirror(ctx, db, seedMemory(), []int{2022, 2023})
	require.NoError(t, err)
	require.Equal(t, MirrorStats{Events: 2, Results: 3, Laps: 2, Weather: 1}, stats)

	// a second pass inserts nothing new
	_, err = Mirror(ctx, db, seedMemory(), []int{2023})
	require.NoError(t, err)

	events, err := db.Events(ctx, 2023)
	require.NoError(t, err)
	require.Equal(t, []models.Event{
		{Season: 2023, Round: 1, Circuit: "Sakhir", Name: "Bahrain Grand Prix"},
		{Season: 2023, Round: 2, Circuit: "Jeddah", Name: "Saudi Arabian Grand Prix"},
	}, events)

	results, err := db.Results(ctx, models.SessionKey{Season: 2023, Round: 1, Type: models.SessionRace})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "LEC", results[0].DriverCode)
	require.Equal(t, "R", results[0].Position)
	require.Equal(t, models.SessionRace, results[0].Session)

	laps, err := db.Laps(ctx, models.SessionKey{Season: 2023, Round: 1, Type: models.SessionFP3})
	require.NoError(t, err)
	require.Len(t, laps, 2)
	require.True(t, laps[0].PitOut)
	require.False(t, laps[1].PitOut)

	weather, err := db.Weather(ctx, models.SessionKey{Season: 2023, Round: 1, Type: models.SessionRace})
	require.NoError(t, err)
	require.Len(t, weather, 1)
	require.True(t, weather[0].TS.Equal(time.Date(2023, 3, 5, 15, 0, 0, 0, time.UTC)))
	require.Equal(t, 27.5, weather[0].AirTemp)

	_, err = db.Laps(ctx, models.SessionKey{Season: 2023, Round: 2, Type: models.SessionFP3})
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = db.Events(ctx, 2022)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
