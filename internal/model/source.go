package model

// SourceType discriminates how a data source is extracted.
type SourceType string

const (
	SourceTypeRSS       SourceType = "rss"
	SourceTypeWebsite   SourceType = "website"
	SourceTypeAPI       SourceType = "api"
	SourceTypeLegalFeed SourceType = "legal_feed"
)

// DataSource describes one extraction origin. Config is an opaque bag
// interpreted by the extractor registered for the source type.
type DataSource struct {
	SourceID   string            `json:"source_id" yaml:"source_id"`
	SourceType SourceType        `json:"source_type" yaml:"source_type"`
	Name       string            `json:"name" yaml:"name"`
	Config     map[string]string `json:"config,omitempty" yaml:"config,omitempty"`
	Active     bool              `json:"active" yaml:"active"`
}

// PipelineStage names one stage of the processing sequence.
type PipelineStage string

const (
	StageExtraction     PipelineStage = "extraction"
	StageFiltering      PipelineStage = "filtering"
	StageDeduplication  PipelineStage = "deduplication"
	StageEnrichment     PipelineStage = "enrichment"
	StagePrioritization PipelineStage = "prioritization"
	StageStorage        PipelineStage = "storage"
)

// Stages lists the pipeline stages in execution order.
var Stages = []PipelineStage{
	StageExtraction,
	StageFiltering,
	StageDeduplication,
	StageEnrichment,
	StagePrioritization,
	StageStorage,
}

// ProcessingStatus is the per-source outcome of extraction.
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusFailed  ProcessingStatus = "failed"
	StatusPartial ProcessingStatus = "partial"
)
