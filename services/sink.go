package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/pipeline"
)

const sinkBatchSize = 500

// ErrNoRuns is returned by LatestRun before anything was stored.
var ErrNoRuns = errors.New("no feature runs stored")

// FeatureSink persists assembled feature tables to PostgreSQL.
type FeatureSink struct {
	db *gorm.DB
}

func NewFeatureSink(db *gorm.DB) *FeatureSink {
	return &FeatureSink{db: db}
}

func (s *FeatureSink) Migrate() error {
	return s.db.AutoMigrate(&models.FeatureRow{}, &models.FeatureRun{})
}

// Replace swaps the stored feature table for t and records the run. Readers
// see either the previous table or the new one, never a mix.
func (s *FeatureSink) Replace(ctx context.Context, runID string, t *pipeline.Table) (models.FeatureRun, error) {
	run, err := newRun(runID, t, time.Now().UTC())
	if err != nil {
		return run, err
	}
	rows := featureModels(runID, t.Rows)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.FeatureRow{}).Error; err != nil {
			return fmt.Errorf("clear features: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, sinkBatchSize).Error; err != nil {
				return fmt.Errorf("insert features: %w", err)
			}
		}
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
	return run, err
}

func (s *FeatureSink) LatestRun(ctx context.Context) (models.FeatureRun, error) {
	var run models.FeatureRun
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return run, ErrNoRuns
	}
	return run, err
}

func newRun(runID string, t *pipeline.Table, at time.Time) (models.FeatureRun, error) {
	m := t.Manifest
	m.RunID = runID
	data, err := json.Marshal(m)
	if err != nil {
		return models.FeatureRun{}, fmt.Errorf("encode manifest: %w", err)
	}
	return models.FeatureRun{
		RunID:     runID,
		CreatedAt: at,
		Rows:      len(t.Rows),
		Manifest:  string(data),
	}, nil
}

func featureModels(runID string, rows []pipeline.Row) []models.FeatureRow {
	out := make([]models.FeatureRow, len(rows))
	for i, r := range rows {
		out[i] = r.Model(runID)
	}
	return out
}
