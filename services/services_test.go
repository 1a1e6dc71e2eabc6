package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/pipeline"
)

func sampleTable() *pipeline.Table {
	return &pipeline.Table{
		Rows: []pipeline.Row{
			{Season: 2023, Round: 1, Circuit: "sakhir", Driver: "VER", Team: "Red Bull Racing", TrackType: pipeline.TrackPermanent, Label: 1, Split: pipeline.SplitValidation},
			{Season: 2023, Round: 1, Circuit: "sakhir", Driver: "LEC", Team: "Ferrari", TrackType: pipeline.TrackPermanent, Label: pipeline.DNFPosition, Split: pipeline.SplitValidation, WetRace: true},
		},
		Manifest: pipeline.Manifest{Policy: pipeline.ImputeSentinel, Sentinel: -1, Rows: 2},
	}
}

func TestNewRunEmbedsManifest(t *testing.T) {
	at := time.Date(2024, 12, 9, 10, 0, 0, 0, time.UTC)
	tbl := sampleTable()

	run, err := newRun("run-1", tbl, at)
	require.NoError(t, err)
	require.Equal(t, "run-1", run.RunID)
	require.Equal(t, 2, run.Rows)
	require.Equal(t, at, run.CreatedAt)

	var m pipeline.Manifest
	require.NoError(t, json.Unmarshal([]byte(run.Manifest), &m))
	require.Equal(t, "run-1", m.RunID)
	require.Equal(t, pipeline.ImputeSentinel, m.Policy)
	require.Empty(t, tbl.Manifest.RunID, "the table's manifest is left untouched")
}

func TestFeatureModels(t *testing.T) {
	rows := featureModels("run-2", sampleTable().Rows)
	require.Len(t, rows, 2)
	require.Equal(t, "VER", rows[0].DriverCode)
	require.Equal(t, "sakhir", rows[0].Circuit)
	require.Equal(t, "validation", rows[0].Split)
	require.Equal(t, "run-2", rows[1].RunID)
	require.Equal(t, pipeline.DNFPosition, rows[1].Label)
	require.True(t, rows[1].WetRace)
}

func TestDisconnectedCache(t *testing.T) {
	ctx := context.Background()
	cache := &CacheService{}
	require.False(t, cache.Available())

	var dest map[string]any
	require.True(t, IsMiss(cache.Get(ctx, ManifestKey, &dest)))
	require.NoError(t, cache.Set(ctx, ManifestKey, map[string]int{"rows": 1}, time.Minute))
	require.NoError(t, cache.Publish(ctx, RunsChannel, RunEvent{RunID: "x"}))
	require.NoError(t, cache.DeletePrefix(ctx, "f1features:"))
	require.Nil(t, cache.Subscribe(ctx, RunsChannel))
	require.NoError(t, cache.Close())
}
