package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/config"
)

func splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split <season>",
		Short: "Print the split a season is assigned to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("season must be a year: %q", args[0])
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			pcfg, err := pipelineConfig(cfg.Pipeline)
			if err != nil {
				return err
			}
			split, err := pcfg.Splits.Assign(season)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), split)
			return nil
		},
	}
}
