// Package monitoring reports operational health of the SDK's external
// capabilities and configuration.
package monitoring

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/config"
	"github.com/sells-group/outreach-sdk/internal/enrich"
	"github.com/sells-group/outreach-sdk/pkg/anthropic"
)

// Component health states. A check reports degraded rather than failing:
// health is advisory, never an error path.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

const pingTimeout = 5 * time.Second

// Component is the health of a single subsystem.
type Component struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Report aggregates component health. Status is degraded when any component
// is degraded.
type Report struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
	CheckedAt  time.Time            `json:"checked_at"`
}

// HealthChecker probes the intelligence capability, the enrichment source
// registry, and the loaded configuration.
type HealthChecker struct {
	intelligence anthropic.Client
	model        string
	sources      *enrich.Registry
	cfg          *config.Config
}

// NewHealthChecker creates a health checker. intelligence may be nil when no
// API key is configured; that reports as degraded, not as a panic.
func NewHealthChecker(intelligence anthropic.Client, model string, sources *enrich.Registry, cfg *config.Config) *HealthChecker {
	return &HealthChecker{
		intelligence: intelligence,
		model:        model,
		sources:      sources,
		cfg:          cfg,
	}
}

// Check runs all component probes. It never returns an error; failures are
// reflected in the report.
func (h *HealthChecker) Check(ctx context.Context) *Report {
	report := &Report{
		Status:     StatusHealthy,
		Components: make(map[string]Component),
		CheckedAt:  time.Now().UTC(),
	}

	report.Components["config"] = h.checkConfig()
	report.Components["intelligence"] = h.checkIntelligence(ctx)
	report.Components["enrichment_sources"] = h.checkSources()

	for name, comp := range report.Components {
		if comp.Status != StatusHealthy {
			report.Status = StatusDegraded
			zap.L().Warn("health check degraded",
				zap.String("component", name),
				zap.String("detail", comp.Detail),
			)
		}
	}
	return report
}

func (h *HealthChecker) checkConfig() Component {
	if h.cfg == nil {
		return Component{Status: StatusDegraded, Detail: "no configuration loaded"}
	}
	if err := h.cfg.Validate(); err != nil {
		return Component{Status: StatusDegraded, Detail: err.Error()}
	}
	return Component{Status: StatusHealthy}
}

func (h *HealthChecker) checkIntelligence(ctx context.Context) Component {
	if h.intelligence == nil {
		return Component{Status: StatusDegraded, Detail: "no API client configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := h.intelligence.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     h.model,
		MaxTokens: 1,
		Messages:  []anthropic.Message{{Role: "user", Content: "ping"}},
	})
	if err != nil {
		return Component{Status: StatusDegraded, Detail: err.Error()}
	}
	return Component{Status: StatusHealthy}
}

func (h *HealthChecker) checkSources() Component {
	if h.sources == nil || h.sources.Len() == 0 {
		return Component{Status: StatusDegraded, Detail: "no enrichment sources registered"}
	}
	return Component{
		Status: StatusHealthy,
		Detail: strings.Join(h.sources.List(), ", "),
	}
}
