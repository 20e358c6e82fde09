package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/ingest"
	"github.com/sells-group/outreach-sdk/internal/model"
)

var importSource string

var importCmd = &cobra.Command{
	Use:   "import <file.csv|file.xlsx>",
	Short: "Bulk-create leads from a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		rows, err := ingest.ReadFile(args[0])
		if err != nil {
			return err
		}

		created, skipped := 0, 0
		for _, row := range rows {
			var contacts []model.Contact
			if row.Contact != nil {
				contacts = append(contacts, *row.Contact)
			}

			source := row.Source
			if source == "" {
				source = importSource
			}

			if _, err := env.registry.Create(row.Company, contacts, source, row.Tags); err != nil {
				skipped++
				zap.L().Warn("skipped invalid row",
					zap.String("company", row.Company.Name),
					zap.Error(err),
				)
				continue
			}
			created++
		}

		if err := saveSnapshot(env.registry); err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.String("file", args[0]),
			zap.Int("created", created),
			zap.Int("skipped", skipped),
		)
		cmd.Printf("imported %d leads (%d skipped)\n", created, skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSource, "source", "import", "source recorded on rows without one")
	rootCmd.AddCommand(importCmd)
}
