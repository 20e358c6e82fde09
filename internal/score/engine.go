// Package score computes composite qualification scores for leads. Four
// deterministic sub-scores are combined with configured weights, and one
// intelligence-capability call per lead adds a qualitative judgment.
package score

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/outreach-sdk/internal/config"
	"github.com/sells-group/outreach-sdk/internal/model"
)

const defaultBatchSize = 10

// Engine scores leads against a target profile.
type Engine struct {
	judge     Judger
	profile   TargetProfile
	weights   config.ScoringWeights
	batchSize int
}

// Option configures the engine.
type Option func(*Engine)

// WithProfile sets the target profile.
func WithProfile(p TargetProfile) Option {
	return func(e *Engine) {
		e.profile = p
	}
}

// WithWeights sets the sub-score weights. A zero total means equal weights.
func WithWeights(w config.ScoringWeights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithBatchSize sets the concurrency ceiling for ScoreBatch.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// NewEngine creates a scoring engine over a judge.
func NewEngine(judge Judger, opts ...Option) *Engine {
	e := &Engine{
		judge:     judge,
		profile:   DefaultProfile(),
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the lead's composite score. The returned LeadScore is fully
// populated; on any failure nil is returned and the lead keeps its previous
// score. The judgment failure policy is surface, not swallow: a malformed
// model response or a rate limit rejection fails the whole call.
func (e *Engine) Score(ctx context.Context, lead *model.Lead) (*model.LeadScore, error) {
	sub := SubScores{
		CompanyFit:          companyFit(&lead.Company, e.profile),
		ContactQuality:      contactQuality(lead.Contacts),
		EngagementPotential: engagementPotential(&lead.Company),
		TechnologyFit:       technologyFit(&lead.Company, e.profile),
	}

	judgment, err := e.judge.Evaluate(ctx, lead, sub)
	if err != nil {
		return nil, err
	}

	weights := e.effectiveWeights()
	overall := clamp(sub.CompanyFit*weights.CompanyFit +
		sub.ContactQuality*weights.ContactQuality +
		sub.EngagementPotential*weights.EngagementPotential +
		sub.TechnologyFit*weights.TechnologyFit)

	return &model.LeadScore{
		Overall:             overall,
		CompanyFit:          sub.CompanyFit,
		ContactQuality:      sub.ContactQuality,
		EngagementPotential: sub.EngagementPotential,
		TechnologyFit:       sub.TechnologyFit,
		Judgment:            judgment,
		Factors: map[string]any{
			"weights": map[string]float64{
				"company_fit":          weights.CompanyFit,
				"contact_quality":      weights.ContactQuality,
				"engagement_potential": weights.EngagementPotential,
				"technology_fit":       weights.TechnologyFit,
			},
		},
		ScoredAt: time.Now().UTC(),
	}, nil
}

// ScoreBatch scores leads concurrently up to the engine's batch size. Each
// lead fails independently: a failed lead yields a nil slot and a logged
// error, and the result slice mirrors the input order.
func (e *Engine) ScoreBatch(ctx context.Context, leads []*model.Lead) ([]*model.LeadScore, error) {
	scores := make([]*model.LeadScore, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchSize)

	for i, lead := range leads {
		g.Go(func() error {
			s, err := e.Score(gctx, lead)
			if err != nil {
				zap.L().Warn("lead scoring failed",
					zap.String("lead_id", lead.ID),
					zap.Error(err),
				)
				return nil
			}
			scores[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// effectiveWeights normalizes the configured weights to sum to 1, falling
// back to equal weighting when the total is zero.
func (e *Engine) effectiveWeights() config.ScoringWeights {
	w := e.weights
	total := w.CompanyFit + w.ContactQuality + w.EngagementPotential + w.TechnologyFit
	if total <= 0 {
		return config.ScoringWeights{
			CompanyFit:          0.25,
			ContactQuality:      0.25,
			EngagementPotential: 0.25,
			TechnologyFit:       0.25,
		}
	}
	return config.ScoringWeights{
		CompanyFit:          w.CompanyFit / total,
		ContactQuality:      w.ContactQuality / total,
		EngagementPotential: w.EngagementPotential / total,
		TechnologyFit:       w.TechnologyFit / total,
	}
}
