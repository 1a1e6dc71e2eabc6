package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/config"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/store"
)

func mirrorCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy the PostgreSQL session records into the local SQLite cache",
		Long: `Copy every session record the build needs from PostgreSQL into a local
SQLite file, so later builds can run with STORE_BACKEND=sqlite and no server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if path == "" {
				path = cfg.Store.SQLitePath
			}
			pcfg, err := pipelineConfig(cfg.Pipeline)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := connectPostgres(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			dst, err := store.NewSQLite(path)
			if err != nil {
				return fmt.Errorf("open sqlite cache: %w", err)
			}
			defer dst.Close()

			st, err := store.Mirror(ctx, dst, store.NewPostgres(pool), pcfg.HistorySeasons())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mirrored %d events, %d results, %d laps, %d weather samples into %s\n",
				st.Events, st.Results, st.Laps, st.Weather, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "SQLite file (overrides SQLITE_PATH)")

	return cmd
}
