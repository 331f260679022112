// Package pipeline orchestrates the lead processing run: concurrent
// per-source extraction followed by the fixed filter, deduplicate,
// validate, enrich, prioritize, store stage sequence.
package pipeline

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/groundsignal/leadradar/internal/config"
	"github.com/groundsignal/leadradar/internal/enrich"
	"github.com/groundsignal/leadradar/internal/extractor"
	"github.com/groundsignal/leadradar/internal/metrics"
	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/internal/store"
	"github.com/groundsignal/leadradar/internal/validate"
)

// SourceResult is the isolated outcome of processing one source.
type SourceResult struct {
	SourceID   string                 `json:"source_id"`
	SourceType model.SourceType       `json:"source_type"`
	Status     model.ProcessingStatus `json:"status"`
	Leads      []model.Lead           `json:"-"`
	LeadCount  int                    `json:"lead_count"`
	Error      string                 `json:"error,omitempty"`
	ErrorKind  string                 `json:"error_kind,omitempty"`
}

// RunResult is what a full pipeline run returns.
type RunResult struct {
	ProcessingResults []SourceResult  `json:"processing_results"`
	Leads             []model.Lead    `json:"-"`
	TotalLeads        int             `json:"total_leads"`
	Metrics           *metrics.Report `json:"metrics"`
}

// Pipeline drives the stage sequence over a batch of data sources.
type Pipeline struct {
	cfg       *config.Config
	registry  *extractor.Registry
	enricher  enrich.Enricher
	validator *validate.Validator
	storage   store.Store

	disabled map[model.PipelineStage]bool
}

// New assembles a pipeline. Disabled stages come from the config;
// disabling extraction is ignored so a misconfiguration can never
// produce a run that extracts nothing.
func New(cfg *config.Config, registry *extractor.Registry, enricher enrich.Enricher, validator *validate.Validator, storage store.Store) *Pipeline {
	disabled := make(map[model.PipelineStage]bool)
	for _, name := range cfg.Pipeline.DisabledStages {
		stage := model.PipelineStage(strings.ToLower(strings.TrimSpace(name)))
		if stage == model.StageExtraction {
			zap.L().Warn("pipeline: extraction stage cannot be disabled, ignoring")
			continue
		}
		disabled[stage] = true
	}
	return &Pipeline{
		cfg:       cfg,
		registry:  registry,
		enricher:  enricher,
		validator: validator,
		storage:   storage,
		disabled:  disabled,
	}
}

// StageEnabled reports whether a stage will run. Extraction is always
// enabled.
func (p *Pipeline) StageEnabled(stage model.PipelineStage) bool {
	if stage == model.StageExtraction {
		return true
	}
	return !p.disabled[stage]
}

// ProcessSource extracts leads from one source under the configured
// timeout. Failures are caught, classified, and returned in the result;
// they never propagate.
func (p *Pipeline) ProcessSource(ctx context.Context, source model.DataSource) SourceResult {
	result := SourceResult{
		SourceID:   source.SourceID,
		SourceType: source.SourceType,
		Status:     model.StatusSuccess,
	}

	if timeout := p.cfg.Pipeline.SourceTimeoutSecs; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	leads, err := p.extract(ctx, source)
	result.Leads = leads
	result.LeadCount = len(leads)

	if err != nil {
		result.Error = err.Error()
		result.ErrorKind = classifyError(err)
		if len(leads) > 0 {
			result.Status = model.StatusPartial
		} else {
			result.Status = model.StatusFailed
		}
		zap.L().Warn("pipeline: source failed",
			zap.String("source_id", source.SourceID),
			zap.String("kind", result.ErrorKind),
			zap.Error(err),
		)
	}
	return result
}

func (p *Pipeline) extract(ctx context.Context, source model.DataSource) ([]model.Lead, error) {
	ext, err := p.registry.Get(source.SourceType)
	if err != nil {
		return nil, err
	}
	return ext.Extract(ctx, source)
}

// validateLeads runs the check chain over each lead. Accepted leads get
// their adjusted confidence applied; rejected leads are dropped from the
// batch with their reasons logged. A collaborator failure inside a check
// (the duplicate check's storage read, the NLP scorer) is systemic and
// aborts the run.
func (p *Pipeline) validateLeads(ctx context.Context, leads []model.Lead) ([]model.Lead, error) {
	kept := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		outcome, err := p.validator.ValidateLead(ctx, lead)
		if err != nil {
			return nil, err
		}
		if !outcome.IsValid {
			zap.L().Info("pipeline: lead rejected",
				zap.String("lead_id", lead.ID),
				zap.Strings("reasons", outcome.Messages),
			)
			continue
		}
		lead.ConfidenceScore = outcome.AdjustedConfidence
		kept = append(kept, lead)
	}
	return kept, nil
}

// ProcessSources runs the full stage sequence over the active sources.
// Per-source failures are recorded and skipped; systemic failures in
// enrichment or storage abort the run.
func (p *Pipeline) ProcessSources(ctx context.Context, sources []model.DataSource) (*RunResult, error) {
	recorder := metrics.NewRecorder()

	active := make([]model.DataSource, 0, len(sources))
	for _, s := range sources {
		if s.Active {
			active = append(active, s)
		}
	}
	recorder.SetTotalSources(len(active))

	// Fan out extraction; results land at their source's index so
	// aggregation order matches source order regardless of completion
	// order.
	results := make([]SourceResult, len(active))
	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.Pipeline.MaxWorkers > 0 {
		g.SetLimit(p.cfg.Pipeline.MaxWorkers)
	}
	for i, source := range active {
		g.Go(func() error {
			result := p.ProcessSource(gctx, source)
			recorder.SourceProcessed(result.SourceType, result.Status, result.LeadCount, result.ErrorKind)
			results[i] = result
			return nil
		})
	}
	// Workers never return errors; Wait only observes ctx cancellation.
	if err := g.Wait(); err != nil {
		recorder.Finish()
		return nil, eris.Wrap(err, "pipeline: process sources")
	}

	leads := make([]model.Lead, 0)
	for _, r := range results {
		leads = append(leads, r.Leads...)
	}
	recorder.RecordCount(metrics.CounterExtracted, len(leads))
	zap.L().Info("pipeline: extraction complete",
		zap.Int("sources", len(active)),
		zap.Int("leads", len(leads)),
	)

	if p.StageEnabled(model.StageFiltering) {
		leads = FilterLeads(leads, p.cfg.Pipeline.MinConfidenceThreshold)
	}
	recorder.RecordCount(metrics.CounterAfterFiltering, len(leads))

	if p.StageEnabled(model.StageDeduplication) {
		leads = DeduplicateLeads(leads)
		ReportNearDuplicates(leads, p.cfg.Pipeline.SimilarityThreshold)
	}
	recorder.RecordCount(metrics.CounterAfterDeduplication, len(leads))

	if p.validator != nil {
		validated, err := p.validateLeads(ctx, leads)
		if err != nil {
			recorder.Finish()
			return nil, eris.Wrap(err, "pipeline: validate leads")
		}
		leads = validated
	}
	recorder.RecordCount(metrics.CounterAfterValidation, len(leads))

	if p.StageEnabled(model.StageEnrichment) && p.enricher != nil {
		enriched, err := p.enricher.EnrichLeads(ctx, leads)
		if err != nil {
			recorder.Finish()
			return nil, eris.Wrap(err, "pipeline: enrich leads")
		}
		leads = enriched
	}

	if p.StageEnabled(model.StagePrioritization) {
		leads = PrioritizeLeads(leads, p.cfg.Priority,
			p.cfg.Validation.TargetMarkets, p.cfg.Validation.TargetSectors, time.Now().UTC())
	}

	stored := 0
	if p.StageEnabled(model.StageStorage) && p.storage != nil {
		var err error
		stored, err = p.storage.StoreLeads(ctx, leads)
		if err != nil {
			recorder.Finish()
			return nil, eris.Wrap(err, "pipeline: store leads")
		}
	}
	recorder.RecordCount(metrics.CounterStored, stored)

	report := recorder.Finish()
	if p.validator != nil && len(leads) > 0 {
		total := 0.0
		for _, lead := range leads {
			total += p.validator.EvaluateLeadQuality(lead)
		}
		report.AverageQuality = total / float64(len(leads))
	}

	zap.L().Info("pipeline: run complete",
		zap.Int("total_leads", len(leads)),
		zap.Int("stored", stored),
		zap.Duration("elapsed", report.Duration()),
	)
	return &RunResult{
		ProcessingResults: results,
		Leads:             leads,
		TotalLeads:        len(leads),
		Metrics:           report,
	}, nil
}

// classifyError buckets a per-source failure for the metrics report.
func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case isNetworkError(err):
		return "network"
	case isConfigError(err):
		return "config"
	default:
		return "extraction"
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "connection reset")
}

func isConfigError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no url configured") ||
		strings.Contains(msg, "no keywords configured") ||
		strings.Contains(msg, "needs url") ||
		strings.Contains(msg, "no extractor registered")
}
