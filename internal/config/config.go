package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/outreach-sdk/internal/model"
)

// Config holds the full application configuration. The SDK treats it as
// read-only after Load.
type Config struct {
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl" mapstructure:"firecrawl"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Enrichment EnrichmentConfig `yaml:"enrichment" mapstructure:"enrichment"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings for the scoring judgment.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// FirecrawlConfig holds Firecrawl API settings for the website source.
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PerplexityConfig holds Perplexity API settings for the research source.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// EnrichmentConfig configures the enrichment orchestrator.
type EnrichmentConfig struct {
	// Sources is the priority order in which source results fill unset
	// fields. Sources not listed here are still usable by explicit request.
	Sources      []string `yaml:"sources" mapstructure:"sources"`
	ForceRefresh bool     `yaml:"force_refresh" mapstructure:"force_refresh"`
}

// ScoringConfig configures the scoring engine.
type ScoringConfig struct {
	Weights     ScoringWeights `yaml:"weights" mapstructure:"weights"`
	ProfilePath string         `yaml:"profile_path" mapstructure:"profile_path"`
}

// ScoringWeights are the relative weights of the four sub-scores in the
// overall composite. Zero total falls back to equal weighting.
type ScoringWeights struct {
	CompanyFit          float64 `yaml:"company_fit" mapstructure:"company_fit"`
	ContactQuality      float64 `yaml:"contact_quality" mapstructure:"contact_quality"`
	EngagementPotential float64 `yaml:"engagement_potential" mapstructure:"engagement_potential"`
	TechnologyFit       float64 `yaml:"technology_fit" mapstructure:"technology_fit"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	// Size is the default concurrency ceiling for batch enrichment and
	// scoring when the caller does not specify one.
	Size int `yaml:"size" mapstructure:"size"`
}

// RateLimitConfig caps outbound request rates to external capabilities.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ServerConfig configures the HTTP service boundary.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and OUTREACH_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.size", 10)
	v.SetDefault("rate_limit.requests_per_minute", 60)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.temperature", 0.2)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("enrichment.sources", []string{"research", "website"})
	v.SetDefault("enrichment.force_refresh", false)
	v.SetDefault("scoring.weights.company_fit", 1.0)
	v.SetDefault("scoring.weights.contact_quality", 1.0)
	v.SetDefault("scoring.weights.engagement_potential", 1.0)
	v.SetDefault("scoring.weights.technology_fit", 1.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration can support core initialization.
// Failures are fatal and reported as ConfigurationError.
func (c *Config) Validate() error {
	if c.Batch.Size <= 0 {
		return &model.ConfigurationError{Msg: "batch.size must be positive"}
	}
	if c.Firecrawl.Key == "" && c.Perplexity.Key == "" {
		return &model.ConfigurationError{Msg: "at least one enrichment source key is required (firecrawl.key or perplexity.key)"}
	}
	if c.Anthropic.Key == "" {
		return &model.ConfigurationError{Msg: "anthropic.key is required for scoring"}
	}
	w := c.Scoring.Weights
	if w.CompanyFit < 0 || w.ContactQuality < 0 || w.EngagementPotential < 0 || w.TechnologyFit < 0 {
		return &model.ConfigurationError{Msg: "scoring weights must be non-negative"}
	}
	for _, s := range c.Enrichment.Sources {
		if s != "website" && s != "research" {
			return &model.ConfigurationError{Msg: "unknown enrichment source: " + s}
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
