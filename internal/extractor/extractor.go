// Package extractor pulls raw leads out of configured data sources.
package extractor

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/pkg/legaldocs"
)

// Extractor produces leads from one kind of data source.
type Extractor interface {
	// Type identifies the source type this extractor handles.
	Type() model.SourceType

	// Extract fetches and parses leads from the source. Returned leads
	// carry the source ID and a default confidence unless the source
	// supplies one.
	Extract(ctx context.Context, source model.DataSource) ([]model.Lead, error)
}

// Registry maps source types to their extractors.
type Registry struct {
	extractors map[model.SourceType]Extractor
	order      []model.SourceType // insertion order for deterministic iteration
}

// NewRegistry creates a registry populated with every built-in
// extractor. The legal-feed extractor is included only when a notices
// client is provided.
func NewRegistry(notices legaldocs.Client) *Registry {
	r := &Registry{extractors: make(map[model.SourceType]Extractor)}

	r.Register(NewRSS())
	r.Register(NewWebsite())
	r.Register(NewAPI())
	if notices != nil {
		r.Register(NewLegalFeed(notices))
	}
	return r
}

// Register adds an extractor, replacing any existing one for its type.
func (r *Registry) Register(e Extractor) {
	if _, ok := r.extractors[e.Type()]; !ok {
		r.order = append(r.order, e.Type())
	}
	r.extractors[e.Type()] = e
}

// Get returns the extractor for a source type.
func (r *Registry) Get(t model.SourceType) (Extractor, error) {
	e, ok := r.extractors[t]
	if !ok {
		return nil, eris.Errorf("extractor: no extractor registered for source type %q", t)
	}
	return e, nil
}

// Types lists registered source types in registration order.
func (r *Registry) Types() []model.SourceType {
	out := make([]model.SourceType, len(r.order))
	copy(out, r.order)
	return out
}
