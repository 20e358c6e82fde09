// Package lifecycle drives leads through the qualification pipeline:
// enrichment, scoring, and the score-driven status transition.
package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

// Enricher is the enrichment capability the controller composes.
type Enricher interface {
	Enrich(ctx context.Context, lead *model.Lead, sources []string, forceRefresh bool) error
	EnrichBatch(ctx context.Context, leads []*model.Lead, batchSize int, sources []string, forceRefresh bool) ([]*model.Lead, error)
}

// Scorer is the scoring capability the controller composes.
type Scorer interface {
	Score(ctx context.Context, lead *model.Lead) (*model.LeadScore, error)
	ScoreBatch(ctx context.Context, leads []*model.Lead) ([]*model.LeadScore, error)
}

// ProcessOptions selects the phases a process call runs.
type ProcessOptions struct {
	Enrich       bool
	Score        bool
	Sources      []string
	ForceRefresh bool
}

// FullProcess runs both phases.
func FullProcess() ProcessOptions {
	return ProcessOptions{Enrich: true, Score: true}
}

// Controller owns the score-to-status transition rules and the composed
// process operations.
type Controller struct {
	registry *registry.Registry
	enricher Enricher
	scorer   Scorer
}

// New creates a lifecycle controller.
func New(reg *registry.Registry, enricher Enricher, scorer Scorer) *Controller {
	return &Controller{
		registry: reg,
		enricher: enricher,
		scorer:   scorer,
	}
}

// ApplyScore attaches the score to the lead and applies the threshold-driven
// status transition. Only NEW, QUALIFIED, and DISQUALIFIED are ever assigned
// here; engagement statuses (contacted, responded, converted, failed) are
// driven by explicit updates, never by scoring. Tags are additive and
// idempotent, so re-scoring a lead into the same band changes nothing.
func (c *Controller) ApplyScore(lead *model.Lead, score *model.LeadScore) {
	lead.Score = score

	var status model.LeadStatus
	var tag string
	switch {
	case score.Overall >= 80:
		status, tag = model.StatusQualified, "high-priority"
	case score.Overall >= 60:
		status, tag = model.StatusQualified, "medium-priority"
	case score.Overall >= 40:
		status, tag = model.StatusNew, "low-priority"
	default:
		status, tag = model.StatusDisqualified, "disqualified"
	}

	lead.UpdateStatus(status, "")
	lead.AddTag(tag)
	lead.QualificationNotes = fmt.Sprintf("scored %.1f (%s)", score.Overall, tag)
	if score.Judgment != nil && score.Judgment.Approach != "" {
		lead.QualificationNotes += ": " + score.Judgment.Approach
	}

	zap.L().Info("lead transitioned",
		zap.String("lead_id", lead.ID),
		zap.Float64("overall_score", score.Overall),
		zap.String("status", string(lead.Status)),
		zap.String("tag", tag),
	)
}

// ProcessComplete runs the selected phases for one lead in fixed order:
// enrichment first, then scoring with transition. A phase failure stops the
// pipeline and is reported with the phase that failed.
func (c *Controller) ProcessComplete(ctx context.Context, leadID string, opts ProcessOptions) (*model.Lead, error) {
	lead := c.registry.Get(leadID)
	if lead == nil {
		return nil, &model.ValidationError{Field: "lead_id", Msg: "lead not found: " + leadID}
	}

	if opts.Enrich {
		if err := c.enricher.Enrich(ctx, lead, opts.Sources, opts.ForceRefresh); err != nil {
			return nil, &model.OrchestrationError{Phase: model.PhaseEnrichment, LeadID: leadID, Err: err}
		}
	}

	if opts.Score {
		score, err := c.scorer.Score(ctx, lead)
		if err != nil {
			return nil, &model.OrchestrationError{Phase: model.PhaseScoring, LeadID: leadID, Err: err}
		}
		c.ApplyScore(lead, score)
	}

	return lead, nil
}

// ProcessBatchComplete runs the pipeline over many leads: batch enrichment,
// then batch scoring with transitions, then a final registry read per id.
// Unknown ids and ids deleted mid-flight are silently omitted from the
// result; per-lead phase failures skip that lead only.
func (c *Controller) ProcessBatchComplete(ctx context.Context, leadIDs []string, batchSize int, opts ProcessOptions) ([]*model.Lead, error) {
	leads := make([]*model.Lead, 0, len(leadIDs))
	for _, id := range leadIDs {
		if lead := c.registry.Get(id); lead != nil {
			leads = append(leads, lead)
		}
	}

	if opts.Enrich {
		if _, err := c.enricher.EnrichBatch(ctx, leads, batchSize, opts.Sources, opts.ForceRefresh); err != nil {
			return nil, &model.OrchestrationError{Phase: model.PhaseEnrichment, Err: err}
		}
	}

	if opts.Score {
		scores, err := c.scorer.ScoreBatch(ctx, leads)
		if err != nil {
			return nil, &model.OrchestrationError{Phase: model.PhaseScoring, Err: err}
		}
		for i, score := range scores {
			if score != nil {
				c.ApplyScore(leads[i], score)
			}
		}
	}

	out := make([]*model.Lead, 0, len(leadIDs))
	for _, id := range leadIDs {
		if lead := c.registry.Get(id); lead != nil {
			out = append(out, lead)
		}
	}
	return out, nil
}
