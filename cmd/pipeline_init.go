package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/groundsignal/leadradar/internal/enrich"
	"github.com/groundsignal/leadradar/internal/extractor"
	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/internal/nlp"
	"github.com/groundsignal/leadradar/internal/pipeline"
	"github.com/groundsignal/leadradar/internal/resilience"
	"github.com/groundsignal/leadradar/internal/store"
	"github.com/groundsignal/leadradar/internal/validate"
	"github.com/groundsignal/leadradar/pkg/legaldocs"
)

// pipelineEnv bundles the collaborators a command needs.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

func (e *pipelineEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// initPipeline wires the store, extractors, validator and orchestrator
// from the loaded config.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var notices legaldocs.Client
	if len(cfg.LegalDocs.Providers) > 0 {
		providers := make([]legaldocs.Provider, len(cfg.LegalDocs.Providers))
		for i, p := range cfg.LegalDocs.Providers {
			providers[i] = legaldocs.Provider{Name: p.Name, BaseURL: p.BaseURL, APIKey: p.APIKey}
		}
		retry := resilience.DefaultPolicy()
		if cfg.LegalDocs.MaxRetries > 0 {
			retry.MaxAttempts = cfg.LegalDocs.MaxRetries
		}
		notices, err = legaldocs.NewClient(providers,
			legaldocs.WithRateLimit(cfg.LegalDocs.RatePerSecond),
			legaldocs.WithRetryPolicy(retry))
		if err != nil {
			st.Close()
			return nil, eris.Wrap(err, "init legaldocs client")
		}
	}

	registry := extractor.NewRegistry(notices)
	validator := validate.New(cfg.Validation, st, nlp.NewKeywordScorer())
	p := pipeline.New(cfg, registry, enrich.NewOrgEnricher(), validator, st)

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

type sourcesFile struct {
	Sources []model.DataSource `yaml:"sources"`
}

// loadSources reads source definitions from a YAML file.
func loadSources(path string) ([]model.DataSource, error) {
	if path == "" {
		path = cfg.Pipeline.SourcesFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read sources file %s", path)
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, eris.Wrapf(err, "parse sources file %s", path)
	}
	if len(parsed.Sources) == 0 {
		return nil, eris.Errorf("sources file %s defines no sources", path)
	}

	for i, s := range parsed.Sources {
		if s.SourceID == "" {
			return nil, eris.Errorf("sources file %s: source %d has no source_id", path, i)
		}
		if s.SourceType == "" {
			return nil, eris.Errorf("sources file %s: source %q has no source_type", path, s.SourceID)
		}
	}
	return parsed.Sources, nil
}
