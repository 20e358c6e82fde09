package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-sdk/internal/model"
)

func validConfig() *Config {
	return &Config{
		Anthropic:  AnthropicConfig{Key: "sk-ant-test", Model: "claude-sonnet-4-5-20250929"},
		Perplexity: PerplexityConfig{Key: "pplx-test"},
		Enrichment: EnrichmentConfig{Sources: []string{"research", "website"}},
		Scoring: ScoringConfig{Weights: ScoringWeights{
			CompanyFit: 1, ContactQuality: 1, EngagementPotential: 1, TechnologyFit: 1,
		}},
		Batch: BatchConfig{Size: 10},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingAnthropicKey(t *testing.T) {
	cfg := validConfig()
	cfg.Anthropic.Key = ""

	err := cfg.Validate()
	require.Error(t, err)

	var cerr *model.ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestValidate_NoSourceKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Perplexity.Key = ""
	cfg.Firecrawl.Key = ""

	assert.Error(t, cfg.Validate())
}

func TestValidate_UnknownSource(t *testing.T) {
	cfg := validConfig()
	cfg.Enrichment.Sources = []string{"clearbit"}

	assert.Error(t, cfg.Validate())
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Scoring.Weights.TechnologyFit = -1

	assert.Error(t, cfg.Validate())
}

func TestValidate_BatchSize(t *testing.T) {
	cfg := validConfig()
	cfg.Batch.Size = 0

	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Batch.Size)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"research", "website"}, cfg.Enrichment.Sources)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.InDelta(t, 1.0, cfg.Scoring.Weights.CompanyFit, 0.001)
}
