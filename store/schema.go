package store

// schema is accepted by both PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		season  INTEGER NOT NULL,
		round   INTEGER NOT NULL,
		circuit TEXT    NOT NULL,
		name    TEXT    NOT NULL DEFAULT '',
		PRIMARY KEY (season, round)
	)`,
	`CREATE TABLE IF NOT EXISTS session_results (
		season      INTEGER NOT NULL,
		round       INTEGER NOT NULL,
		session     TEXT    NOT NULL,
		driver_code TEXT    NOT NULL,
		team        TEXT    NOT NULL DEFAULT '',
		position    TEXT    NOT NULL DEFAULT '',
		points      DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (season, round, session, driver_code)
	)`,
	`CREATE TABLE IF NOT EXISTS session_laps (
		season      INTEGER NOT NULL,
		round       INTEGER NOT NULL,
		session     TEXT    NOT NULL,
		driver_code TEXT    NOT NULL,
		lap_number  INTEGER NOT NULL,
		lap_time_ms BIGINT  NOT NULL DEFAULT 0,
		pit_in      BOOLEAN NOT NULL DEFAULT FALSE,
		pit_out     BOOLEAN NOT NULL DEFAULT FALSE,
		deleted     BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (season, round, session, driver_code, lap_number)
	)`,
	`CREATE TABLE IF NOT EXISTS session_weather (
		season     INTEGER   NOT NULL,
		round      INTEGER   NOT NULL,
		session    TEXT      NOT NULL,
		ts         TIMESTAMP NOT NULL,
		rainfall   DOUBLE PRECISION NOT NULL DEFAULT 0,
		air_temp   DOUBLE PRECISION NOT NULL DEFAULT 0,
		track_temp DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (season, round, session, ts)
	)`,
}
