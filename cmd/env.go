package main

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-sdk/internal/config"
	"github.com/sells-group/outreach-sdk/internal/enrich"
	"github.com/sells-group/outreach-sdk/internal/enrich/source"
	"github.com/sells-group/outreach-sdk/internal/lifecycle"
	"github.com/sells-group/outreach-sdk/internal/monitoring"
	"github.com/sells-group/outreach-sdk/internal/registry"
	"github.com/sells-group/outreach-sdk/internal/score"
	"github.com/sells-group/outreach-sdk/pkg/anthropic"
	"github.com/sells-group/outreach-sdk/pkg/firecrawl"
	"github.com/sells-group/outreach-sdk/pkg/perplexity"
)

// env wires the SDK components for one command invocation.
type env struct {
	registry     *registry.Registry
	sources      *enrich.Registry
	orchestrator *enrich.Orchestrator
	engine       *score.Engine
	controller   *lifecycle.Controller
	health       *monitoring.HealthChecker
}

// buildEnv assembles the component graph from the loaded config and restores
// the lead registry from the snapshot file when one exists.
func buildEnv() (*env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := registry.New()
	if err := loadSnapshot(reg); err != nil {
		return nil, err
	}

	sources := buildSources(cfg)
	orchestrator := enrich.NewOrchestrator(sources,
		enrich.WithSourceOrder(cfg.Enrichment.Sources),
		enrich.WithForceRefresh(cfg.Enrichment.ForceRefresh),
	)

	profile, err := score.LoadProfile(cfg.Scoring.ProfilePath)
	if err != nil {
		return nil, eris.Wrap(err, "load target profile")
	}

	anthropicClient := anthropic.NewClient(cfg.Anthropic.Key)
	judge := score.NewJudge(anthropicClient, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, &cfg.Anthropic.Temperature)
	engine := score.NewEngine(judge,
		score.WithProfile(profile),
		score.WithWeights(cfg.Scoring.Weights),
		score.WithBatchSize(cfg.Batch.Size),
	)

	return &env{
		registry:     reg,
		sources:      sources,
		orchestrator: orchestrator,
		engine:       engine,
		controller:   lifecycle.New(reg, orchestrator, engine),
		health:       monitoring.NewHealthChecker(anthropicClient, cfg.Anthropic.Model, sources, cfg),
	}, nil
}

// buildSources registers every enrichment source that has credentials.
func buildSources(cfg *config.Config) *enrich.Registry {
	sources := enrich.NewRegistry()

	rps := float64(cfg.RateLimit.RequestsPerMinute) / 60

	if cfg.Firecrawl.Key != "" {
		opts := []firecrawl.Option{firecrawl.WithRateLimit(rps)}
		if cfg.Firecrawl.BaseURL != "" {
			opts = append(opts, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		}
		sources.Register(source.NewWebsite(firecrawl.NewClient(cfg.Firecrawl.Key, opts...)))
	}

	if cfg.Perplexity.Key != "" {
		opts := []perplexity.Option{perplexity.WithRateLimit(rps)}
		if cfg.Perplexity.BaseURL != "" {
			opts = append(opts, perplexity.WithBaseURL(cfg.Perplexity.BaseURL))
		}
		if cfg.Perplexity.Model != "" {
			opts = append(opts, perplexity.WithModel(cfg.Perplexity.Model))
		}
		sources.Register(source.NewResearch(perplexity.NewClient(cfg.Perplexity.Key, opts...)))
	}

	return sources
}
