package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/config"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/pipeline"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/services"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/store"
)

const (
	featuresFile = "features.csv"
	manifestFile = "manifest.json"
)

func buildCmd() *cobra.Command {
	var (
		persist bool
		notify  bool
		outDir  string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble the feature table and write features.csv and manifest.json",
		Long: `Load every session record for the configured seasons, assemble the
driver/race feature table and write it to OUTPUT_DIR.

With REBUILD_INTERVAL_SEC > 0 the build repeats on that interval and serves
/metrics and /health on METRICS_ADDR.

Examples:
  f1features build
  STORE_BACKEND=sqlite f1features build --out-dir ./data
  f1features build --persist --notify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if outDir != "" {
				cfg.Pipeline.OutputDir = outDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			return runBuild(ctx, cfg, persist, notify, logger)
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "store the table in PostgreSQL")
	cmd.Flags().BoolVar(&notify, "notify", false, "publish the manifest and a run event to Redis")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "output directory (overrides OUTPUT_DIR)")
	cmd.Flags().BoolVar(&debug, "debug", false, "log skipped races and other per-race decisions")

	return cmd
}

func runBuild(ctx context.Context, cfg *config.Config, persist, notify bool, logger *slog.Logger) error {
	pcfg, err := pipelineConfig(cfg.Pipeline)
	if err != nil {
		return err
	}
	tracks, err := loadTracks(cfg.Pipeline)
	if err != nil {
		return err
	}
	asm, err := pipeline.NewAssembler(pcfg, tracks, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()
	log.Printf("session store connected: %s", cfg.Store.Backend)

	b := &builder{src: src, asm: asm, outDir: cfg.Pipeline.OutputDir}

	if persist {
		db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("connect feature database: %w", err)
		}
		b.sink = services.NewFeatureSink(db)
		if err := b.sink.Migrate(); err != nil {
			return fmt.Errorf("migrate feature tables: %w", err)
		}
	}
	if notify {
		cache, err := services.NewCacheService(cfg.Redis)
		if err != nil {
			return err
		}
		defer cache.Close()
		b.cache = cache
	}

	interval := time.Duration(cfg.Pipeline.RebuildIntervalSec) * time.Second
	if interval <= 0 {
		_, err := b.runCycle(ctx)
		return err
	}

	go serveHTTP(cfg.Metrics.Addr)
	log.Printf("pipeline running: interval=%s seasons=%d-%d", interval, pcfg.Splits.First(), pcfg.Splits.Last())

	// first build right away, then on every tick
	if _, err := b.runCycle(ctx); err != nil {
		log.Printf("build failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := b.runCycle(ctx); err != nil {
				log.Printf("build failed: %v", err)
			}
		case <-ctx.Done():
			log.Printf("pipeline shutting down")
			return nil
		}
	}
}

// builder runs one load/assemble/write cycle. sink and cache are optional.
type builder struct {
	src    store.Source
	asm    *pipeline.Assembler
	outDir string
	sink   *services.FeatureSink
	cache  *services.CacheService
}

func (b *builder) runCycle(ctx context.Context) (*pipeline.Table, error) {
	start := time.Now()
	table, err := b.build(ctx)
	runDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		runsFailed.Inc()
		return nil, err
	}
	recordRun(table.Manifest)
	log.Printf("run %s: %d rows in %s", table.Manifest.RunID, table.Manifest.Rows, time.Since(start).Round(time.Millisecond))
	return table, nil
}

func (b *builder) build(ctx context.Context) (*pipeline.Table, error) {
	cfg := b.asm.Config()
	snap, err := pipeline.LoadSnapshot(ctx, b.src, cfg.HistorySeasons(), cfg.PracticeSessions)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	table, err := b.asm.Build(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	table.Manifest.RunID = uuid.NewString()

	if err := writeOutputs(b.outDir, table); err != nil {
		return nil, err
	}

	if b.sink != nil {
		if _, err := b.sink.Replace(ctx, table.Manifest.RunID, table); err != nil {
			return nil, fmt.Errorf("persist features: %w", err)
		}
	}
	if b.cache != nil {
		b.publish(ctx, table)
	}
	return table, nil
}

// publish is best effort: the files are already written.
func (b *builder) publish(ctx context.Context, table *pipeline.Table) {
	m := table.Manifest
	if err := b.cache.Set(ctx, services.ManifestKey, m, 0); err != nil {
		log.Printf("cache manifest failed: %v", err)
	}
	if err := b.cache.DeletePrefix(ctx, services.FeaturesCachePrefix); err != nil {
		log.Printf("invalidate feature pages failed: %v", err)
	}
	ev := services.RunEvent{RunID: m.RunID, Rows: m.Rows, CreatedAt: time.Now().UTC()}
	if err := b.cache.Publish(ctx, services.RunsChannel, ev); err != nil {
		log.Printf("publish run event failed: %v", err)
	}
}

// writeOutputs writes both files next to each other through temporary files,
// so a reader never sees a half-written table.
func writeOutputs(dir string, table *pipeline.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, featuresFile), table.WriteCSV); err != nil {
		return fmt.Errorf("write %s: %w", featuresFile, err)
	}
	if err := writeAtomic(filepath.Join(dir, manifestFile), table.WriteManifest); err != nil {
		return fmt.Errorf("write %s: %w", manifestFile, err)
	}
	return nil
}

func writeAtomic(path string, write func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
