package model

import "time"

// EnrichmentResult is a single source's outcome for one lead. Results are
// folded into Lead.Metadata provenance rather than stored as entities.
type EnrichmentResult struct {
	LeadID         string         `json:"lead_id"`
	Source         string         `json:"source"`
	Success        bool           `json:"success"`
	Data           map[string]any `json:"data,omitempty"`
	Errors         []string       `json:"errors,omitempty"`
	EnrichedAt     time.Time      `json:"enriched_at"`
	ProcessingTime time.Duration  `json:"processing_time,omitempty"`
}
