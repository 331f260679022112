// Package metrics accumulates per-run pipeline counters. A single
// aggregator goroutine owns the counters and consumes events sent by
// concurrent workers, so increments never race and never need a lock on
// the caller side.
package metrics

import (
	"sync"
	"time"

	"github.com/groundsignal/leadradar/internal/model"
)

// Counter names a stage-boundary lead count.
type Counter string

const (
	CounterExtracted          Counter = "total_leads_extracted"
	CounterAfterFiltering     Counter = "leads_after_filtering"
	CounterAfterDeduplication Counter = "leads_after_deduplication"
	CounterAfterValidation    Counter = "leads_after_validation"
	CounterStored             Counter = "leads_stored"
)

// SourceTypeStats aggregates outcomes for one source type.
type SourceTypeStats struct {
	Total          int `json:"total"`
	Success        int `json:"success"`
	Failed         int `json:"failed"`
	Partial        int `json:"partial"`
	LeadsExtracted int `json:"leads_extracted"`
}

// Report is the immutable snapshot produced when a run finishes.
type Report struct {
	TotalSources            int                                  `json:"total_sources"`
	ProcessedSources        int                                  `json:"processed_sources"`
	SuccessfulSources       int                                  `json:"successful_sources"`
	FailedSources           int                                  `json:"failed_sources"`
	TotalLeadsExtracted     int                                  `json:"total_leads_extracted"`
	LeadsAfterFiltering     int                                  `json:"leads_after_filtering"`
	LeadsAfterDeduplication int                                  `json:"leads_after_deduplication"`
	LeadsAfterValidation    int                                  `json:"leads_after_validation"`
	LeadsStored             int                                  `json:"leads_stored"`
	AverageQuality          float64                              `json:"average_quality"`
	SourceTypeStats         map[model.SourceType]SourceTypeStats `json:"source_type_stats"`
	ErrorCounts             map[string]int                       `json:"error_counts"`
	StartTime               time.Time                            `json:"start_time"`
	EndTime                 time.Time                            `json:"end_time"`
}

// Duration returns the wall-clock length of the run.
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

type event interface{ isEvent() }

type sourceEvent struct {
	sourceType model.SourceType
	status     model.ProcessingStatus
	leads      int
	errKind    string
}

type countEvent struct {
	counter Counter
	n       int
}

type errorEvent struct{ kind string }

type totalEvent struct{ n int }

func (sourceEvent) isEvent() {}
func (countEvent) isEvent()  {}
func (errorEvent) isEvent()  {}
func (totalEvent) isEvent()  {}

// Recorder collects events for one pipeline run.
type Recorder struct {
	events chan event
	done   chan struct{}
	finish sync.Once

	// Owned by the aggregator goroutine until done is closed.
	report Report
}

// NewRecorder starts a recorder for a run beginning now.
func NewRecorder() *Recorder {
	r := &Recorder{
		events: make(chan event, 64),
		done:   make(chan struct{}),
		report: Report{
			StartTime:       time.Now().UTC(),
			SourceTypeStats: make(map[model.SourceType]SourceTypeStats),
			ErrorCounts:     make(map[string]int),
		},
	}
	go r.aggregate()
	return r
}

func (r *Recorder) aggregate() {
	defer close(r.done)
	for ev := range r.events {
		switch e := ev.(type) {
		case totalEvent:
			r.report.TotalSources = e.n
		case sourceEvent:
			r.report.ProcessedSources++
			stats := r.report.SourceTypeStats[e.sourceType]
			stats.Total++
			stats.LeadsExtracted += e.leads
			switch e.status {
			case model.StatusSuccess:
				r.report.SuccessfulSources++
				stats.Success++
			case model.StatusFailed:
				r.report.FailedSources++
				stats.Failed++
			case model.StatusPartial:
				r.report.SuccessfulSources++
				stats.Partial++
			}
			r.report.SourceTypeStats[e.sourceType] = stats
			if e.errKind != "" {
				r.report.ErrorCounts[e.errKind]++
			}
		case countEvent:
			switch e.counter {
			case CounterExtracted:
				r.report.TotalLeadsExtracted = e.n
			case CounterAfterFiltering:
				r.report.LeadsAfterFiltering = e.n
			case CounterAfterDeduplication:
				r.report.LeadsAfterDeduplication = e.n
			case CounterAfterValidation:
				r.report.LeadsAfterValidation = e.n
			case CounterStored:
				r.report.LeadsStored = e.n
			}
		case errorEvent:
			r.report.ErrorCounts[e.kind]++
		}
	}
}

// SetTotalSources records how many sources the run was asked to process.
func (r *Recorder) SetTotalSources(n int) {
	r.events <- totalEvent{n: n}
}

// SourceProcessed records the outcome of one source. Safe to call from
// concurrent workers.
func (r *Recorder) SourceProcessed(sourceType model.SourceType, status model.ProcessingStatus, leads int, errKind string) {
	r.events <- sourceEvent{sourceType: sourceType, status: status, leads: leads, errKind: errKind}
}

// RecordCount records a stage-boundary lead count.
func (r *Recorder) RecordCount(c Counter, n int) {
	r.events <- countEvent{counter: c, n: n}
}

// RecordError counts an error occurrence by kind.
func (r *Recorder) RecordError(kind string) {
	r.events <- errorEvent{kind: kind}
}

// Finish freezes the run, stops the aggregator, and returns the report.
// No recording methods may be called after Finish.
func (r *Recorder) Finish() *Report {
	r.finish.Do(func() {
		close(r.events)
	})
	<-r.done
	r.report.EndTime = time.Now().UTC()

	// Copy maps so the returned report is immune to reuse bugs.
	out := r.report
	out.SourceTypeStats = make(map[model.SourceType]SourceTypeStats, len(r.report.SourceTypeStats))
	for k, v := range r.report.SourceTypeStats {
		out.SourceTypeStats[k] = v
	}
	out.ErrorCounts = make(map[string]int, len(r.report.ErrorCounts))
	for k, v := range r.report.ErrorCounts {
		out.ErrorCounts[k] = v
	}
	return &out
}
