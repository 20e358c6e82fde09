package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-sdk/internal/model"
)

func leadWith(status model.LeadStatus, overall *float64, industry model.Industry, techs []string, sources []string) *model.Lead {
	lead := model.NewLead(model.NewCompany("Acme"), nil)
	lead.Status = status
	lead.Company.Industry = industry
	lead.Company.Technologies = techs
	if overall != nil {
		lead.Score = &model.LeadScore{Overall: *overall}
	}
	if len(sources) > 0 {
		lead.Metadata[model.MetadataEnrichmentKey] = map[string]any{
			"sources_used": sources,
		}
	}
	return lead
}

func floatPtr(f float64) *float64 { return &f }

func TestSummarize_EmptyInput(t *testing.T) {
	report := Summarize(nil)

	assert.Equal(t, 0, report.TotalLeads)
	assert.Equal(t, 0.0, report.AverageScore)
	assert.NotNil(t, report.StatusCounts)
	assert.Equal(t, 0, report.ScoreDistribution["high"])
	assert.Empty(t, report.TopIndustries)
	assert.Equal(t, 0.0, report.Enrichment.EnrichedPercent)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestSummarize_StatusAndScoreHistograms(t *testing.T) {
	leads := []*model.Lead{
		leadWith(model.StatusQualified, floatPtr(85), model.IndustryTechnology, nil, nil),
		leadWith(model.StatusQualified, floatPtr(65), model.IndustryTechnology, nil, nil),
		leadWith(model.StatusNew, floatPtr(45), model.IndustryFinance, nil, nil),
		leadWith(model.StatusDisqualified, floatPtr(20), model.IndustryFinance, nil, nil),
		leadWith(model.StatusNew, nil, model.IndustryRetail, nil, nil),
	}

	report := Summarize(leads)

	assert.Equal(t, 5, report.TotalLeads)
	assert.Equal(t, 2, report.StatusCounts[model.StatusQualified])
	assert.Equal(t, 2, report.StatusCounts[model.StatusNew])
	assert.Equal(t, 1, report.StatusCounts[model.StatusDisqualified])

	assert.Equal(t, 1, report.ScoreDistribution["high"])
	assert.Equal(t, 1, report.ScoreDistribution["medium"])
	assert.Equal(t, 1, report.ScoreDistribution["low"])
	assert.Equal(t, 1, report.ScoreDistribution["very_low"])

	// Unscored leads are excluded from the mean.
	assert.InDelta(t, (85+65+45+20)/4.0, report.AverageScore, 0.001)
}

func TestSummarize_TopIndustriesCapped(t *testing.T) {
	var leads []*model.Lead
	industries := []model.Industry{
		model.IndustryTechnology, model.IndustryFinance, model.IndustryHealthcare,
		model.IndustryRetail, model.IndustryEducation, model.IndustryConsulting,
	}
	for i, ind := range industries {
		for range i + 1 {
			leads = append(leads, leadWith(model.StatusNew, nil, ind, nil, nil))
		}
	}

	report := Summarize(leads)

	require.Len(t, report.TopIndustries, 5)
	assert.Equal(t, string(model.IndustryConsulting), report.TopIndustries[0].Name)
	assert.Equal(t, 6, report.TopIndustries[0].Count)
}

func TestSummarize_TechnologyTiesBrokenByFirstSeen(t *testing.T) {
	leads := []*model.Lead{
		leadWith(model.StatusNew, nil, "", []string{"Zig", "Ada"}, nil),
		leadWith(model.StatusNew, nil, "", []string{"Ada", "Zig"}, nil),
	}

	report := Summarize(leads)

	require.Len(t, report.TopTechnologies, 2)
	assert.Equal(t, "Zig", report.TopTechnologies[0].Name)
	assert.Equal(t, "Ada", report.TopTechnologies[1].Name)
}

func TestSummarize_TopTechnologiesCappedAtTen(t *testing.T) {
	var techs []string
	for i := range 15 {
		techs = append(techs, fmt.Sprintf("tech-%d", i))
	}
	report := Summarize([]*model.Lead{leadWith(model.StatusNew, nil, "", techs, nil)})
	assert.Len(t, report.TopTechnologies, 10)
}

func TestSummarize_FailedEnrichmentStillCounted(t *testing.T) {
	failed := leadWith(model.StatusNew, nil, "", nil, nil)
	failed.Metadata[model.MetadataEnrichmentKey] = map[string]any{
		"sources_used": []string{},
		"results":      map[string]any{"website": map[string]any{"success": false}},
	}
	untouched := leadWith(model.StatusNew, nil, "", nil, nil)

	report := Summarize([]*model.Lead{failed, untouched})

	assert.Equal(t, 1, report.Enrichment.EnrichedLeads)
	assert.Equal(t, 50.0, report.Enrichment.EnrichedPercent)
	assert.Equal(t, 0.0, report.Enrichment.AvgSources)
	assert.Empty(t, report.Enrichment.SourceCounts)
}

func TestSummarize_EnrichmentCoverage(t *testing.T) {
	leads := []*model.Lead{
		leadWith(model.StatusNew, nil, "", nil, []string{"website", "research"}),
		leadWith(model.StatusNew, nil, "", nil, []string{"research"}),
		leadWith(model.StatusNew, nil, "", nil, nil),
		leadWith(model.StatusNew, nil, "", nil, nil),
	}

	report := Summarize(leads)

	assert.Equal(t, 2, report.Enrichment.EnrichedLeads)
	assert.Equal(t, 50.0, report.Enrichment.EnrichedPercent)
	assert.Equal(t, 1.5, report.Enrichment.AvgSources)
	assert.Equal(t, 2, report.Enrichment.SourceCounts["research"])
	assert.Equal(t, 1, report.Enrichment.SourceCounts["website"])
}
