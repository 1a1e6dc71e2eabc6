package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// Postgres reads and writes session records in the shared PostgreSQL
// database fed by the collector.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) Events(ctx context.Context, season int) ([]models.Event, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT season, round, circuit, name
		FROM events
		WHERE season = $1
		ORDER BY round
	`, season)
	if err != nil {
		return nil, fmt.Errorf("query events season=%d: %w", season, err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.Season, &e.Round, &e.Circuit, &e.Name); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
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

func (p *Postgres) Results(ctx context.Context, key models.SessionKey) ([]models.ResultRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT season, round, session, driver_code, team, position, points
		FROM session_results
		WHERE season = $1 AND round = $2 AND session = $3
		ORDER BY driver_code
	`, key.Season, key.Round, string(key.Type))
	if err != nil {
		return nil, fmt.Errorf("query results %s: %w", key, err)
	}
	defer rows.Close()

	var out []models.ResultRecord
	for rows.Next() {
		var r models.ResultRecord
		var session string
		if err := rows.Scan(&r.Season, &r.Round, &session, &r.DriverCode, &r.Team, &r.Position, &r.Points); err != nil {
			return nil, fmt.Errorf("scan result %s: %w", key, err)
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

func (p *Postgres) Laps(ctx context.Context, key models.SessionKey) ([]models.LapRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT season, round, session, driver_code, lap_number, lap_time_ms, pit_in, pit_out, deleted
		FROM session_laps
		WHERE season = $1 AND round = $2 AND session = $3
		ORDER BY driver_code, lap_number
	`, key.Season, key.Round, string(key.Type))
	if err != nil {
		return nil, fmt.Errorf("query laps %s: %w", key, err)
	}
	defer rows.Close()

	var out []models.LapRecord
	for rows.Next() {
		var l models.LapRecord
		var session string
		if err := rows.Scan(&l.Season, &l.Round, &session, &l.DriverCode, &l.LapNumber, &l.LapTimeMs, &l.PitIn, &l.PitOut, &l.Deleted); err != nil {
			return nil, fmt.Errorf("scan lap %s: %w", key, err)
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

func (p *Postgres) Weather(ctx context.Context, key models.SessionKey) ([]models.WeatherSample, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT season, round, session, ts, rainfall, air_temp, track_temp
		FROM session_weather
		WHERE season = $1 AND round = $2 AND session = $3
		ORDER BY ts
	`, key.Season, key.Round, string(key.Type))
	if err != nil {
		return nil, fmt.Errorf("query weather %s: %w", key, err)
	}
	defer rows.Close()

	var out []models.WeatherSample
	for rows.Next() {
		var w models.WeatherSample
		var session string
		if err := rows.Scan(&w.Season, &w.Round, &session, &w.TS, &w.Rainfall, &w.AirTemp, &w.TrackTemp); err != nil {
			return nil, fmt.Errorf("scan weather %s: %w", key, err)
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

func (p *Postgres) InsertEvent(ctx context.Context, e models.Event) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO events (season, round, circuit, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season, round) DO NOTHING
	`, e.Season, e.Round, e.Circuit, e.Name)
	return err
}

func (p *Postgres) InsertResult(ctx context.Context, r models.ResultRecord) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO session_results (season, round, session, driver_code, team, position, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (season, round, session, driver_code) DO NOTHING
	`, r.Season, r.Round, string(r.Session), r.DriverCode, r.Team, r.Position, r.Points)
	return err
}

func (p *Postgres) InsertLap(ctx context.Context, l models.LapRecord) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO session_laps (season, round, session, driver_code, lap_number, lap_time_ms, pit_in, pit_out, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (season, round, session, driver_code, lap_number) DO NOTHING
	`, l.Season, l.Round, string(l.Session), l.DriverCode, l.LapNumber, l.LapTimeMs, l.PitIn, l.PitOut, l.Deleted)
	return err
}

func (p *Postgres) InsertWeather(ctx context.Context, w models.WeatherSample) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO session_weather (season, round, session, ts, rainfall, air_temp, track_temp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (season, round, session, ts) DO NOTHING
	`, w.Season, w.Round, string(w.Session), w.TS.UTC(), w.Rainfall, w.AirTemp, w.TrackTemp)
	return err
}
