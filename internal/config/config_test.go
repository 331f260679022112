package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)

	assert.Equal(t, 5, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, 60, cfg.Pipeline.SourceTimeoutSecs)
	assert.InDelta(t, 0.5, cfg.Pipeline.MinConfidenceThreshold, 0.001)
	assert.InDelta(t, 0.75, cfg.Pipeline.SimilarityThreshold, 0.001)

	assert.Equal(t, []string{"title", "description", "source_id"}, cfg.Validation.RequiredFields)
	assert.Equal(t, 10, cfg.Validation.MinTitleLength)
	assert.Equal(t, 30, cfg.Validation.MinDescriptionLength)
	assert.InDelta(t, 0.85, cfg.Validation.DuplicateSimilarityThreshold, 0.001)
	assert.Equal(t, 30, cfg.Validation.DuplicateLookbackDays)
	assert.Equal(t, 30, cfg.Validation.PublicationDateWindowDays)
	assert.InDelta(t, 0.5, cfg.Validation.IntentScoreThreshold, 0.001)

	assert.InDelta(t, 0.35, cfg.Priority.ValueWeight, 0.001)
	assert.InDelta(t, 0.30, cfg.Priority.ConfidenceWeight, 0.001)
	assert.InDelta(t, 0.20, cfg.Priority.RecencyWeight, 0.001)
	assert.InDelta(t, 0.10, cfg.Priority.MarketWeight, 0.001)
	assert.InDelta(t, 0.05, cfg.Priority.SectorWeight, 0.001)
	assert.InDelta(t, 10_000_000, cfg.Priority.LargeProjectValue, 0.001)
	assert.Equal(t, 90, cfg.Priority.StalenessDays)

	assert.InDelta(t, 2.0, cfg.LegalDocs.RatePerSecond, 0.001)
	assert.Equal(t, 3, cfg.LegalDocs.MaxRetries)
	assert.Equal(t, "https://login.salesforce.com", cfg.Salesforce.LoginURL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
pipeline:
  max_workers: 12
  min_confidence_threshold: 0.65
validation:
  target_markets:
    - "Austin, TX"
    - "Dallas, TX"
  target_sectors:
    - commercial
    - healthcare
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, 12, cfg.Pipeline.MaxWorkers)
	assert.InDelta(t, 0.65, cfg.Pipeline.MinConfidenceThreshold, 0.001)
	assert.Equal(t, []string{"Austin, TX", "Dallas, TX"}, cfg.Validation.TargetMarkets)
	assert.Equal(t, []string{"commercial", "healthcare"}, cfg.Validation.TargetSectors)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Defaults survive partial config.
	assert.Equal(t, 60, cfg.Pipeline.SourceTimeoutSecs)
	assert.InDelta(t, 0.85, cfg.Validation.DuplicateSimilarityThreshold, 0.001)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level"}))
}
