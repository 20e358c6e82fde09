// Package enrich coordinates data enrichment of leads across pluggable
// sources. Sources run in configured priority order and their results are
// merged into the lead's company record with provenance tracking.
package enrich

import (
	"context"
	"sort"
	"sync"

	"github.com/sells-group/outreach-sdk/internal/model"
)

// CompanyIdentifier holds the lookup hints passed to a source.
type CompanyIdentifier struct {
	Name    string
	Domain  string
	Website string
}

// Source is a single enrichment capability. Fetch returns the fields the
// source could determine for the company; existing carries what is already
// known so a source can skip redundant work.
type Source interface {
	Name() string
	Fetch(ctx context.Context, id CompanyIdentifier, existing *model.Company) (*model.EnrichmentResult, error)
}

// Registry manages the available enrichment sources.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds a source, replacing any previous source with the same name.
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name()] = s
}

// Get returns a source by name, or nil if not registered.
func (r *Registry) Get(name string) Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[name]
}

// List returns all registered source names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}
