// Package analytics computes aggregate reports over a set of leads. All
// functions are pure: they read lead state and never mutate it.
package analytics

import (
	"sort"
	"time"

	"github.com/sells-group/outreach-sdk/internal/model"
)

const (
	topIndustries   = 5
	topTechnologies = 10
)

// CountEntry is a ranked name with its occurrence count.
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EnrichmentStats summarizes enrichment coverage across the lead set. A lead
// counts as enriched when it carries enrichment provenance, even if every
// source failed; source tallies cover contributing sources only.
type EnrichmentStats struct {
	EnrichedLeads   int            `json:"enriched_leads"`
	EnrichedPercent float64        `json:"enriched_percent"`
	AvgSources      float64        `json:"avg_sources_per_enriched_lead"`
	SourceCounts    map[string]int `json:"source_counts"`
}

// Report is the full analytics summary for a lead set.
type Report struct {
	TotalLeads        int                      `json:"total_leads"`
	StatusCounts      map[model.LeadStatus]int `json:"status_counts"`
	AverageScore      float64                  `json:"average_score"`
	ScoreDistribution map[string]int           `json:"score_distribution"`
	TopIndustries     []CountEntry             `json:"top_industries"`
	TopTechnologies   []CountEntry             `json:"top_technologies"`
	Enrichment        EnrichmentStats          `json:"enrichment"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// Summarize builds a report over the given leads. An empty input yields a
// zero-valued report with initialized maps; it never fails.
func Summarize(leads []*model.Lead) *Report {
	report := &Report{
		TotalLeads:   len(leads),
		StatusCounts: make(map[model.LeadStatus]int),
		ScoreDistribution: map[string]int{
			"high":     0,
			"medium":   0,
			"low":      0,
			"very_low": 0,
		},
		Enrichment: EnrichmentStats{
			SourceCounts: make(map[string]int),
		},
		GeneratedAt: time.Now().UTC(),
	}

	industries := newRankedCounter()
	technologies := newRankedCounter()

	var scoreSum float64
	var scored int
	var totalSources int

	for _, lead := range leads {
		report.StatusCounts[lead.Status]++

		if lead.Score != nil {
			scored++
			scoreSum += lead.Score.Overall
			report.ScoreDistribution[model.Bucket(lead.Score.Overall)]++
		}

		if lead.Company.Industry != "" {
			industries.add(string(lead.Company.Industry))
		}
		for _, tech := range lead.Company.Technologies {
			technologies.add(tech)
		}

		if lead.EnrichmentMeta() != nil {
			report.Enrichment.EnrichedLeads++
			sources := lead.SourcesUsed()
			totalSources += len(sources)
			for _, src := range sources {
				report.Enrichment.SourceCounts[src]++
			}
		}
	}

	if scored > 0 {
		report.AverageScore = scoreSum / float64(scored)
	}
	if len(leads) > 0 {
		report.Enrichment.EnrichedPercent = 100 * float64(report.Enrichment.EnrichedLeads) / float64(len(leads))
	}
	if report.Enrichment.EnrichedLeads > 0 {
		report.Enrichment.AvgSources = float64(totalSources) / float64(report.Enrichment.EnrichedLeads)
	}

	report.TopIndustries = industries.top(topIndustries)
	report.TopTechnologies = technologies.top(topTechnologies)
	return report
}

// rankedCounter counts names and ranks them by frequency, breaking ties by
// first-seen order.
type rankedCounter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newRankedCounter() *rankedCounter {
	return &rankedCounter{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

func (r *rankedCounter) add(name string) {
	if _, seen := r.counts[name]; !seen {
		r.order[name] = r.next
		r.next++
	}
	r.counts[name]++
}

func (r *rankedCounter) top(n int) []CountEntry {
	entries := make([]CountEntry, 0, len(r.counts))
	for name, count := range r.counts {
		entries = append(entries, CountEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return r.order[entries[i].Name] < r.order[entries[j].Name]
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
