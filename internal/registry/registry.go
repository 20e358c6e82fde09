// Package registry is the in-memory keyed store of leads. A Registry is
// explicitly constructed and injected; it lives for the session and is
// discarded with it. The registry guards its own map so operations on
// different leads are always safe, but it does no per-lead locking —
// serializing writes to the same lead is the caller's responsibility.
package registry

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/model"
)

// Filter selects leads for List. Zero values match everything.
type Filter struct {
	Status model.LeadStatus
	// Tags filters with any-of semantics: a lead matches if it carries at
	// least one of the given tags.
	Tags  []string
	Limit int
}

// FieldUpdates is an allow-listed partial update for a lead. Only known
// mutable fields can be set; unknown keys are rejected with a
// ValidationError instead of being silently applied.
type FieldUpdates map[string]any

// mutableFields is the allow list for Update.
var mutableFields = map[string]bool{
	"source":              true,
	"tags":                true,
	"notes":               true,
	"qualification_notes": true,
	"status":              true,
	"next_follow_up":      true,
	"last_contacted":      true,
	"metadata":            true,
}

// Registry stores leads keyed by id.
type Registry struct {
	mu    sync.RWMutex
	leads map[string]*model.Lead
}

// New creates an empty lead registry.
func New() *Registry {
	return &Registry{
		leads: make(map[string]*model.Lead),
	}
}

// Create validates the seed data, assigns a fresh identity, and stores a
// new lead in status new.
func (r *Registry) Create(company model.Company, contacts []model.Contact, source string, tags []string) (*model.Lead, error) {
	if company.ID == "" {
		seeded := model.NewCompany(company.Name)
		seeded.Name = company.Name
		company.ID = seeded.ID
		company.CreatedAt = seeded.CreatedAt
		company.UpdatedAt = seeded.UpdatedAt
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}

	for i := range contacts {
		if contacts[i].ID == "" {
			seeded := model.NewContact()
			contacts[i].ID = seeded.ID
			contacts[i].CreatedAt = seeded.CreatedAt
			contacts[i].UpdatedAt = seeded.UpdatedAt
		}
		if err := contacts[i].Validate(); err != nil {
			return nil, err
		}
	}

	lead := model.NewLead(company, contacts)
	lead.Source = source
	for _, tag := range tags {
		lead.AddTag(tag)
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	zap.L().Info("created lead",
		zap.String("lead_id", lead.ID),
		zap.String("company", company.Name),
	)
	return lead, nil
}

// Get returns the lead with the given id, or nil if absent.
func (r *Registry) Get(id string) *model.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.leads[id]
}

// List returns leads matching the filter, newest-created first.
func (r *Registry) List(f Filter) []*model.Lead {
	r.mu.RLock()
	leads := make([]*model.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		leads = append(leads, lead)
	}
	r.mu.RUnlock()

	filtered := leads[:0]
	for _, lead := range leads {
		if f.Status != "" && lead.Status != f.Status {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(lead, f.Tags) {
			continue
		}
		filtered = append(filtered, lead)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if f.Limit > 0 && len(filtered) > f.Limit {
		filtered = filtered[:f.Limit]
	}
	return filtered
}

// Update applies allow-listed field updates to a lead. Unknown lead ids,
// unknown field names, and mistyped values fail with ValidationError, and a
// failed update leaves the lead unchanged.
func (r *Registry) Update(id string, updates FieldUpdates) (*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, &model.ValidationError{Field: "lead_id", Msg: "lead " + id + " not found"}
	}

	// Validate every key and value before touching the lead so a bad entry
	// cannot leave a partially applied update behind.
	for key, value := range updates {
		if !mutableFields[key] {
			return nil, &model.ValidationError{Field: key, Msg: "field is not mutable"}
		}
		if err := checkUpdate(key, value); err != nil {
			return nil, err
		}
	}

	for key, value := range updates {
		applyUpdate(lead, key, value)
	}
	lead.UpdatedAt = time.Now().UTC()

	zap.L().Debug("updated lead", zap.String("lead_id", id))
	return lead, nil
}

// Delete removes a lead. Returns false if the id was absent.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return false
	}
	delete(r.leads, id)
	zap.L().Info("deleted lead", zap.String("lead_id", id))
	return true
}

// Snapshot returns all current leads in unspecified order. Analytics reads
// this rather than holding the registry lock during aggregation.
func (r *Registry) Snapshot() []*model.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leads := make([]*model.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		leads = append(leads, lead)
	}
	return leads
}

// Restore inserts previously exported leads, keeping their identities and
// timestamps. Leads without an id are skipped.
func (r *Registry) Restore(leads []*model.Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, lead := range leads {
		if lead == nil || lead.ID == "" {
			continue
		}
		if lead.Metadata == nil {
			lead.Metadata = make(map[string]any)
		}
		r.leads[lead.ID] = lead
	}
}

// Len returns the number of stored leads.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}

func hasAnyTag(lead *model.Lead, tags []string) bool {
	for _, tag := range tags {
		if lead.HasTag(tag) {
			return true
		}
	}
	return false
}

// checkUpdate verifies the value type for an allow-listed key without
// mutating anything.
func checkUpdate(key string, value any) error {
	ok := true
	switch key {
	case "source", "notes", "qualification_notes":
		_, ok = value.(string)
	case "status":
		switch value.(type) {
		case model.LeadStatus, string:
		default:
			ok = false
		}
	case "tags":
		_, ok = value.([]string)
	case "next_follow_up", "last_contacted":
		_, ok = value.(time.Time)
	case "metadata":
		_, ok = value.(map[string]any)
	}
	if !ok {
		return &model.ValidationError{Field: key, Msg: "wrong type for field"}
	}
	return nil
}

// applyUpdate sets one already-validated field on the lead.
func applyUpdate(lead *model.Lead, key string, value any) {
	switch key {
	case "source":
		lead.Source = value.(string)
	case "notes":
		lead.Notes = value.(string)
	case "qualification_notes":
		lead.QualificationNotes = value.(string)
	case "status":
		switch s := value.(type) {
		case model.LeadStatus:
			lead.Status = s
		case string:
			lead.Status = model.LeadStatus(s)
		}
	case "tags":
		for _, tag := range value.([]string) {
			lead.AddTag(tag)
		}
	case "next_follow_up":
		ts := value.(time.Time)
		lead.NextFollowUp = &ts
	case "last_contacted":
		ts := value.(time.Time)
		lead.LastContacted = &ts
	case "metadata":
		if lead.Metadata == nil {
			lead.Metadata = make(map[string]any)
		}
		for k, v := range value.(map[string]any) {
			lead.Metadata[k] = v
		}
	}
}
