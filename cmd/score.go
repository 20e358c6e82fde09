package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

var scoreAll bool

var scoreCmd = &cobra.Command{
	Use:   "score [lead-id...]",
	Short: "Score leads and apply lifecycle transitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if !scoreAll && len(args) == 0 {
			return eris.New("pass lead ids or --all")
		}

		var leads []*model.Lead
		if scoreAll {
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
			s, err := env.engine.Score(ctx, leads[0])
			if err != nil {
				return err
			}
			env.controller.ApplyScore(leads[0], s)
			if err := saveSnapshot(env.registry); err != nil {
				return err
			}
			return printJSON(cmd, leads[0])
		}

		scores, err := env.engine.ScoreBatch(ctx, leads)
		if err != nil {
			return err
		}

		scored := 0
		for i, s := range scores {
			if s != nil {
				env.controller.ApplyScore(leads[i], s)
				scored++
			}
		}
		if err := saveSnapshot(env.registry); err != nil {
			return err
		}

		zap.L().Info("batch scoring complete",
			zap.Int("requested", len(leads)),
			zap.Int("scored", scored),
		)
		return printJSON(cmd, leads)
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "score every lead in the registry")
	rootCmd.AddCommand(scoreCmd)
}
