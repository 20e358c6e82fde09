package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

var (
	enrichSources      []string
	enrichForceRefresh bool
	enrichAll          bool
	enrichBatchSize    int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [lead-id...]",
	Short: "Enrich leads from external data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if !enrichAll && len(args) == 0 {
			return eris.New("pass lead ids or --all")
		}

		batchSize := enrichBatchSize
		if batchSize <= 0 {
			batchSize = cfg.Batch.Size
		}

		var leads []*model.Lead
		if enrichAll {
			leads = env.registry.List(registry.Filter{})
		} else {
			for _, id := range args {
				lead := env.registry.Get(id)
				if lead == nil {
					return eris.Errorf("lead %s not found", id)
				}
				leads = append(leads, lead)
			}
		}

		if len(leads) == 1 {
			if err := env.orchestrator.Enrich(ctx, leads[0], enrichSources, enrichForceRefresh); err != nil {
				return err
			}
			if err := saveSnapshot(env.registry); err != nil {
				return err
			}
			return printJSON(cmd, leads[0])
		}

		enriched, err := env.orchestrator.EnrichBatch(ctx, leads, batchSize, enrichSources, enrichForceRefresh)
		if err != nil {
			return err
		}
		if err := saveSnapshot(env.registry); err != nil {
			return err
		}

		zap.L().Info("batch enrichment complete",
			zap.Int("requested", len(leads)),
			zap.Int("enriched", len(enriched)),
		)
		return printJSON(cmd, enriched)
	},
}

func init() {
	enrichCmd.Flags().StringSliceVar(&enrichSources, "sources", nil, "source priority order (default from config)")
	enrichCmd.Flags().BoolVar(&enrichForceRefresh, "force-refresh", false, "overwrite already-populated fields")
	enrichCmd.Flags().BoolVar(&enrichAll, "all", false, "enrich every lead in the registry")
	enrichCmd.Flags().IntVar(&enrichBatchSize, "batch-size", 0, "concurrency ceiling (default from config)")
	rootCmd.AddCommand(enrichCmd)
}
