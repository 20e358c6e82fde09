package enrich

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/outreach-sdk/internal/model"
)

const defaultBatchSize = 10

// Orchestrator runs enrichment sources against leads and merges results.
type Orchestrator struct {
	sources *Registry
	order   []string
	force   bool
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithSourceOrder sets the default source priority order used when a call
// does not name sources explicitly.
func WithSourceOrder(order []string) Option {
	return func(o *Orchestrator) {
		o.order = order
	}
}

// WithForceRefresh makes enrichment overwrite already-populated fields by
// default.
func WithForceRefresh(force bool) Option {
	return func(o *Orchestrator) {
		o.force = force
	}
}

// NewOrchestrator creates an orchestrator over the given source registry.
func NewOrchestrator(sources *Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sources: sources,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enrich runs the requested sources against the lead in priority order and
// merges their results into the lead's company. When sources is empty the
// orchestrator's configured order is used, falling back to every registered
// source. A lead is considered enriched when at least one source succeeds;
// if all fail, a DataEnrichmentError is returned and the lead is untouched
// except for provenance.
func (o *Orchestrator) Enrich(ctx context.Context, lead *model.Lead, sources []string, forceRefresh bool) error {
	requested := sources
	if len(requested) == 0 {
		requested = o.order
	}
	if len(requested) == 0 {
		requested = o.sources.List()
	}

	id := CompanyIdentifier{
		Name:    lead.Company.Name,
		Domain:  lead.Company.Domain,
		Website: lead.Company.Website,
	}
	if id.Domain == "" {
		id.Domain = GuessDomain(id.Name)
	}

	state := newMergeState(forceRefresh || o.force)
	succeeded := make([]string, 0, len(requested))
	results := make(map[string]any, len(requested))

	for _, name := range requested {
		src := o.sources.Get(name)
		if src == nil {
			zap.L().Warn("enrichment source not registered",
				zap.String("lead_id", lead.ID),
				zap.String("source", name),
			)
			results[name] = map[string]any{"success": false, "error": "source not registered"}
			continue
		}

		start := time.Now()
		res, err := src.Fetch(ctx, id, &lead.Company)
		elapsed := time.Since(start)

		// Sources only see the company identifier; the orchestrator owns the
		// lead association and timing.
		if res != nil {
			res.LeadID = lead.ID
			res.ProcessingTime = elapsed
		}

		if err != nil {
			zap.L().Warn("enrichment source failed",
				zap.String("lead_id", lead.ID),
				zap.String("source", name),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
			results[name] = map[string]any{"success": false, "error": err.Error()}
			continue
		}
		if res == nil || !res.Success {
			var msgs []string
			if res != nil {
				msgs = res.Errors
			}
			results[name] = map[string]any{"success": false, "errors": msgs}
			continue
		}

		state.apply(&lead.Company, res.Data)
		o.mergeContacts(lead, res.Data, forceRefresh)

		// Later sources get the benefit of fields filled so far.
		if id.Domain == "" {
			id.Domain = lead.Company.Domain
		}
		if id.Website == "" {
			id.Website = lead.Company.Website
		}

		succeeded = append(succeeded, name)
		results[name] = map[string]any{
			"success":       true,
			"fields":        len(res.Data),
			"processing_ms": elapsed.Milliseconds(),
		}
		zap.L().Debug("enrichment source succeeded",
			zap.String("lead_id", lead.ID),
			zap.String("source", name),
			zap.Int("fields", len(res.Data)),
			zap.Duration("elapsed", elapsed),
		)
	}

	now := time.Now().UTC()
	if lead.Metadata == nil {
		lead.Metadata = make(map[string]any)
	}
	lead.Metadata[model.MetadataEnrichmentKey] = map[string]any{
		"sources_used": succeeded,
		"enriched_at":  now.Format(time.RFC3339),
		"results":      results,
	}

	if len(succeeded) == 0 {
		return &model.DataEnrichmentError{
			LeadID: lead.ID,
			Source: strings.Join(requested, ","),
			Msg:    "all enrichment sources failed",
		}
	}

	lead.Company.UpdatedAt = now
	lead.UpdatedAt = now
	return nil
}

// EnrichBatch enriches leads in chunks, running at most batchSize leads
// concurrently and finishing each chunk before starting the next. Leads whose
// enrichment fails are skipped; the returned slice holds the successfully
// enriched leads in input order.
func (o *Orchestrator) EnrichBatch(ctx context.Context, leads []*model.Lead, batchSize int, sources []string, forceRefresh bool) ([]*model.Lead, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	enriched := make([]*model.Lead, len(leads))

	for offset := 0; offset < len(leads); offset += batchSize {
		end := min(offset+batchSize, len(leads))
		chunk := leads[offset:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchSize)

		for i, lead := range chunk {
			idx := offset + i
			g.Go(func() error {
				if err := o.Enrich(gctx, lead, sources, forceRefresh); err != nil {
					zap.L().Warn("lead enrichment skipped",
						zap.String("lead_id", lead.ID),
						zap.Error(err),
					)
					return nil
				}
				enriched[idx] = lead
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	out := make([]*model.Lead, 0, len(leads))
	for _, lead := range enriched {
		if lead != nil {
			out = append(out, lead)
		}
	}
	return out, nil
}

// mergeContacts adds contacts supplied by a source when the lead has none
// yet, or appends unseen ones under force refresh. Matching is by email,
// falling back to display name.
func (o *Orchestrator) mergeContacts(lead *model.Lead, data map[string]any, forceRefresh bool) {
	contacts := asContacts(data["contacts"])
	if len(contacts) == 0 {
		return
	}
	if len(lead.Contacts) > 0 && !forceRefresh {
		return
	}

	seen := make(map[string]bool, len(lead.Contacts))
	for _, c := range lead.Contacts {
		seen[contactKey(&c)] = true
	}
	for _, c := range contacts {
		if seen[contactKey(&c)] {
			continue
		}
		lead.Contacts = append(lead.Contacts, c)
		seen[contactKey(&c)] = true
	}
}

func contactKey(c *model.Contact) string {
	if c.Email != "" {
		return strings.ToLower(c.Email)
	}
	return strings.ToLower(c.DisplayName())
}

func asContacts(v any) []model.Contact {
	if cs, ok := v.([]model.Contact); ok {
		return cs
	}
	return nil
}
