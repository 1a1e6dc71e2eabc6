package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// SQLite is a local on-disk cache of session records.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and creates if needed) the cache at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate sqlite cache: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Events(ctx context.Context, season int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT season, round, circuit, name FROM events
		WHERE season = ? ORDER BY round`, season)
	if err != nil {
		return nil, fmt.Errorf("query events season=%d: %w", season, err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.Season, &e.Round, &e.Circuit, &e.Name); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrSessionNotFound
	}
	return out, nil
}

func (s *SQLite) Results(ctx context.Context, key models.SessionKey) ([]models.ResultRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT season, round, session, driver_code, team, position, points FROM session_results
		WHERE season = ? AND round = ? AND session = ? ORDER BY driver_code`,
		key.Season, key.Round, string(key.Type))
	if err != nil {
		return nil, fmt.Errorf("query results %s: %w", key, err)
	}
	defer rows.Close()

	var out []models.ResultRecord
	for rows.Next() {
		var r models.ResultRecord
		var session string
		if err := rows.Scan(&r.Season, &r.Round, &session, &r.DriverCode, &r.Team, &r.Position, &r.Points); err != nil {
			return nil, err
		}
		r.Session = models.SessionType(session)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrSessionNotFound
	}
	return out, nil
}

func (s *SQLite) Laps(ctx context.Context, key models.SessionKey) ([]models.LapRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT season, round, session, driver_code, lap_number, lap_time_ms, pit_in, pit_out, deleted FROM session_laps
		WHERE season = ? AND round = ? AND session = ? ORDER BY driver_code, lap_number`,
		key.Season, key.Round, string(key.Type))
	if err != nil {
		return nil, fmt.Errorf("query laps %s: %w", key, err)
	}
	defer rows.Close()

	var out []models.LapRecord
	for rows.Next() {
		var l models.LapRecord
		var session string
		if err := rows.Scan(&l.Season, &l.Round, &session, &l.DriverCode, &l.LapNumber, &l.LapTimeMs, &l.PitIn, &l.PitOut, &l.Deleted); err != nil {
			return nil, err
		}
		l.Session = models.SessionType(session)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrSessionNotFound
	}
	return out, nil
}

func (s *SQLite) Weather(ctx context.Context, key models.SessionKey) ([]models.WeatherSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT season, round, session, ts, rainfall, air_temp, track_temp FROM session_weather
		WHERE season = ? AND round = ? AND session = ? ORDER BY ts`,
		key.Season, key.Round, string(key.Type))
	if err != nil {
		return nil, fmt.Errorf("query weather %s: %w", key, err)
	}
	defer rows.Close()

	var out []models.WeatherSample
	for rows.Next() {
		var w models.WeatherSample
		var session string
		if err := rows.Scan(&w.Season, &w.Round, &session, &w.TS, &w.Rainfall, &w.AirTemp, &w.TrackTemp); err != nil {
			return nil, err
		}
		w.Session = models.SessionType(session)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrSessionNotFound
	}
	return out, nil
}

func (s *SQLite) InsertEvent(ctx context.Context, e models.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO events (season, round, circuit, name) VALUES (?, ?, ?, ?)`,
		e.Season, e.Round, e.Circuit, e.Name)
	return err
}

func (s *SQLite) InsertResult(ctx context.Context, r models.ResultRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO session_results (season, round, session, driver_code, team, position, points)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Season, r.Round, string(r.Session), r.DriverCode, r.Team, r.Position, r.Points)
	return err
}

func (s *SQLite) InsertLap(ctx context.Context, l models.LapRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO session_laps (season, round, session, driver_code, lap_number, lap_time_ms, pit_in, pit_out, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Season, l.Round, string(l.Session), l.DriverCode, l.LapNumber, l.LapTimeMs, l.PitIn, l.PitOut, l.Deleted)
	return err
}

func (s *SQLite) InsertWeather(ctx context.Context, w models.WeatherSample) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO session_weather (season, round, session, ts, rainfall, air_temp, track_temp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.Season, w.Round, string(w.Session), w.TS.UTC(), w.Rainfall, w.AirTemp, w.TrackTemp)
	return err
}
