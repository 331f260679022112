package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runSourcesPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline over the configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sources, err := loadSources(runSourcesPath)
		if err != nil {
			return err
		}

		result, err := env.Pipeline.ProcessSources(ctx, sources)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		runID, err := env.Store.SaveRun(ctx, result.Metrics)
		if err != nil {
			zap.L().Warn("save run report", zap.Error(err))
		} else {
			zap.L().Info("run saved", zap.String("run_id", runID))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runSourcesPath, "sources", "", "path to sources YAML (defaults to pipeline.sources_file)")
	rootCmd.AddCommand(runCmd)
}
