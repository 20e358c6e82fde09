package model

import "time"

// Judgment is the qualitative assessment returned by the intelligence
// capability for a lead. Extra carries forward-compatible fields the model
// may add beyond the required three.
type Judgment struct {
	Approach   string         `json:"recommended_approach"`
	Strengths  []string       `json:"strengths"`
	Weaknesses []string       `json:"weaknesses"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// LeadScore is the composite qualification score for a lead. All scores are
// bounded to [0,100]. A LeadScore is produced atomically by the scoring
// engine; partial scores are never observable.
type LeadScore struct {
	Overall             float64        `json:"overall_score"`
	CompanyFit          float64        `json:"company_fit_score"`
	ContactQuality      float64        `json:"contact_quality_score"`
	EngagementPotential float64        `json:"engagement_potential_score"`
	TechnologyFit       float64        `json:"technology_fit_score"`
	Judgment            *Judgment      `json:"judgment,omitempty"`
	Factors             map[string]any `json:"scoring_factors,omitempty"`
	ScoredAt            time.Time      `json:"scored_at"`
}

// Bucket returns the score distribution bucket label for an overall score,
// matching the analytics histogram: high (80+), medium (60-79), low (40-59),
// very_low (<40).
func Bucket(overall float64) string {
	switch {
	case overall >= 80:
		return "high"
	case overall >= 60:
		return "medium"
	case overall >= 40:
		return "low"
	default:
		return "very_low"
	}
}
