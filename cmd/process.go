package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-sdk/internal/lifecycle"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

var (
	processSkipEnrich   bool
	processSkipScore    bool
	processSources      []string
	processForceRefresh bool
	processAll          bool
	processBatchSize    int
)

var processCmd = &cobra.Command{
	Use:   "process [lead-id...]",
	Short: "Run the full pipeline: enrich, score, transition",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if !processAll && len(args) == 0 {
			return eris.New("pass lead ids or --all")
		}

		opts := lifecycle.ProcessOptions{
			Enrich:       !processSkipEnrich,
			Score:        !processSkipScore,
			Sources:      processSources,
			ForceRefresh: processForceRefresh,
		}

		ids := args
		if processAll {
			for _, lead := range env.registry.List(registry.Filter{}) {
				ids = append(ids, lead.ID)
			}
		}

		batchSize := processBatchSize
		if batchSize <= 0 {
			batchSize = cfg.Batch.Size
		}

		if len(ids) == 1 {
			lead, err := env.controller.ProcessComplete(ctx, ids[0], opts)
			if err != nil {
				return err
			}
			if err := saveSnapshot(env.registry); err != nil {
				return err
			}
			return printJSON(cmd, lead)
		}

		leads, err := env.controller.ProcessBatchComplete(ctx, ids, batchSize, opts)
		if err != nil {
			return err
		}
		if err := saveSnapshot(env.registry); err != nil {
			return err
		}
		return printJSON(cmd, leads)
	},
}

func init() {
	processCmd.Flags().BoolVar(&processSkipEnrich, "skip-enrich", false, "skip the enrichment phase")
	processCmd.Flags().BoolVar(&processSkipScore, "skip-score", false, "skip the scoring phase")
	processCmd.Flags().StringSliceVar(&processSources, "sources", nil, "source priority order (default from config)")
	processCmd.Flags().BoolVar(&processForceRefresh, "force-refresh", false, "overwrite already-populated fields")
	processCmd.Flags().BoolVar(&processAll, "all", false, "process every lead in the registry")
	processCmd.Flags().IntVar(&processBatchSize, "batch-size", 0, "concurrency ceiling (default from config)")
	rootCmd.AddCommand(processCmd)
}
