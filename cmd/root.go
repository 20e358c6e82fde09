package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "B2B lead qualification pipeline",
	Long:  "Manages a lead registry, enriches leads from external sources, scores them with deterministic rubrics plus an LLM judgment, and drives score-based lifecycle transitions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
