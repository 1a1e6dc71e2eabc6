package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/config"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/pipeline"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/store"
)

// pipelineConfig turns the environment settings into an assembler config.
func pipelineConfig(pc config.PipelineConfig) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	var err error
	if cfg.Splits.Train, err = pipeline.ParseSeasonRange(pc.SplitTrain); err != nil {
		return cfg, fmt.Errorf("invalid SPLIT_TRAIN: %w", err)
	}
	if cfg.Splits.Validation, err = pipeline.ParseSeasonRange(pc.SplitValidation); err != nil {
		return cfg, fmt.Errorf("invalid SPLIT_VALIDATION: %w", err)
	}
	if cfg.Splits.Test, err = pipeline.ParseSeasonRange(pc.SplitTest); err != nil {
		return cfg, fmt.Errorf("invalid SPLIT_TEST: %w", err)
	}
	if cfg.Imputation, err = pipeline.ParseImputationPolicy(pc.ImputationPolicy); err != nil {
		return cfg, fmt.Errorf("invalid IMPUTATION_POLICY: %w", err)
	}

	cfg.TrailingWindow = pc.FormWindow
	cfg.LookbackYears = pc.LookbackYears
	cfg.Sentinel = pc.ImputationSentinel
	cfg.Workers = pc.Workers
	cfg.PracticeSessions = cfg.PracticeSessions[:0]
	for _, s := range pc.PaceSessions {
		cfg.PracticeSessions = append(cfg.PracticeSessions, models.SessionType(s))
	}

	return cfg, cfg.Validate()
}

// loadTracks reads TRACK_TYPES_FILE, or the built-in table when unset.
// TRACK_TYPE_DEFAULT applies when the table names no default.
func loadTracks(pc config.PipelineConfig) (*pipeline.TrackClassifier, error) {
	table := pipeline.DefaultTrackTable()
	if pc.TrackTypesFile != "" {
		f, err := os.Open(pc.TrackTypesFile)
		if err != nil {
			return nil, fmt.Errorf("open track table: %w", err)
		}
		defer f.Close()
		if table, err = pipeline.LoadTrackTable(f); err != nil {
			return nil, err
		}
	}
	if table.Default == "" {
		table.Default = pipeline.TrackType(pc.TrackTypeDefault)
	}
	return pipeline.NewTrackClassifier(table)
}

// openSource connects to the configured session store. The returned func
// releases it.
func openSource(ctx context.Context, cfg *config.Config) (store.Source, func(), error) {
	switch cfg.Store.Backend {
	case "sqlite":
		db, err := store.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return db, func() { db.Close() }, nil
	default:
		pool, err := connectPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(pool), pool.Close, nil
	}
}

func connectPostgres(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, db.GetURL())
	if err != nil {
		return nil, fmt.Errorf("db pool init failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}
