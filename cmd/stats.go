package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-sdk/internal/enrich"
	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

// statsReport is the quick operational summary: counts and wiring, without
// the full analytics breakdown.
type statsReport struct {
	TotalLeads       int                      `json:"total_leads"`
	StatusCounts     map[model.LeadStatus]int `json:"status_counts"`
	AvailableSources []string                 `json:"available_sources"`
	ConfigValid      bool                     `json:"config_valid"`
}

func buildStats(reg *registry.Registry, sources *enrich.Registry) statsReport {
	report := statsReport{
		TotalLeads:       reg.Len(),
		StatusCounts:     make(map[model.LeadStatus]int),
		AvailableSources: sources.List(),
		ConfigValid:      cfg.Validate() == nil,
	}
	for _, lead := range reg.Snapshot() {
		report.StatusCounts[lead.Status]++
	}
	return report
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lead counts, available sources, and config validity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Unlike the other commands, stats reports on an invalid config
		// instead of refusing to run, so it skips the full wiring.
		reg := registry.New()
		if err := loadSnapshot(reg); err != nil {
			return err
		}
		return printJSON(cmd, buildStats(reg, buildSources(cfg)))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
