package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadradar",
	Short: "Construction lead ingestion and scoring pipeline",
	Long:  "Extracts construction-project leads from feeds, listing pages, APIs and legal notices, then filters, deduplicates, prioritizes and stores them for CRM export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
