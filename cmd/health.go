package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-sdk/internal/monitoring"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check external capabilities and configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		report := env.health.Check(cmd.Context())
		if err := printJSON(cmd, report); err != nil {
			return err
		}
		if report.Status != monitoring.StatusHealthy {
			cmd.SilenceUsage = true
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
