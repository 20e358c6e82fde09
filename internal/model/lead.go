package model

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus tracks a lead through the qualification pipeline.
type LeadStatus string

const (
	StatusNew          LeadStatus = "new"
	StatusEnriching    LeadStatus = "enriching"
	StatusQualified    LeadStatus = "qualified"
	StatusDisqualified LeadStatus = "disqualified"
	StatusContacted    LeadStatus = "contacted"
	StatusResponded    LeadStatus = "responded"
	StatusConverted    LeadStatus = "converted"
	StatusFailed       LeadStatus = "failed"
)

// MetadataEnrichmentKey is the reserved Lead.Metadata key under which the
// enrichment orchestrator records provenance.
const MetadataEnrichmentKey = "enrichment"

// Lead is the unit of work: one company, its contacts, and pipeline state.
// A lead exclusively owns its Company and Contacts; operations on different
// leads never interfere, while concurrent mutation of the same lead is the
// caller's responsibility to avoid.
type Lead struct {
	ID                 string         `json:"id"`
	Company            Company        `json:"company"`
	Contacts           []Contact      `json:"contacts,omitempty"`
	Status             LeadStatus     `json:"status"`
	Score              *LeadScore     `json:"score,omitempty"`
	Source             string         `json:"source,omitempty"`
	Tags               []string       `json:"tags,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	QualificationNotes string         `json:"qualification_notes,omitempty"`
	LastContacted      *time.Time     `json:"last_contacted,omitempty"`
	NextFollowUp       *time.Time     `json:"next_follow_up,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// NewLead creates a lead in status new with a fresh identity.
func NewLead(company Company, contacts []Contact) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.NewString(),
		Company:   company,
		Contacts:  contacts,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  make(map[string]any),
	}
}

// PrimaryContact returns the best contact for outreach: the first contact
// matching the role priority CTO > CEO > developer > product manager, the
// first contact otherwise, nil when there are no contacts.
func (l *Lead) PrimaryContact() *Contact {
	if len(l.Contacts) == 0 {
		return nil
	}
	for _, role := range decisionMakerRoles {
		for i := range l.Contacts {
			if l.Contacts[i].Role == role {
				return &l.Contacts[i]
			}
		}
	}
	return &l.Contacts[0]
}

// AddTag adds a tag if not already present. Tags are an idempotent set.
func (l *Lead) AddTag(tag string) {
	for _, t := range l.Tags {
		if t == tag {
			return
		}
	}
	l.Tags = append(l.Tags, tag)
	l.UpdatedAt = time.Now().UTC()
}

// HasTag reports whether the lead carries tag.
func (l *Lead) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// UpdateStatus transitions the lead and bumps UpdatedAt. An optional note
// replaces the lead's notes.
func (l *Lead) UpdateStatus(status LeadStatus, notes string) {
	l.Status = status
	l.UpdatedAt = time.Now().UTC()
	if notes != "" {
		l.Notes = notes
	}
}

// EnrichmentMeta returns the provenance map stored under the reserved
// metadata key, or nil if the lead has not been enriched.
func (l *Lead) EnrichmentMeta() map[string]any {
	if l.Metadata == nil {
		return nil
	}
	meta, _ := l.Metadata[MetadataEnrichmentKey].(map[string]any)
	return meta
}

// SourcesUsed returns the enrichment source names that contributed data to
// this lead, in contribution order. Empty when unenriched.
func (l *Lead) SourcesUsed() []string {
	meta := l.EnrichmentMeta()
	if meta == nil {
		return nil
	}
	switch v := meta["sources_used"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
