package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-sdk/internal/analytics"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Summarize the lead registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		return printJSON(cmd, analytics.Summarize(env.registry.Snapshot()))
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}
