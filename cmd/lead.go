package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Manage leads in the registry",
}

var (
	leadName         string
	leadDomain       string
	leadWebsite      string
	leadIndustry     string
	leadSource       string
	leadTags         []string
	leadContactName  string
	leadContactEmail string
	leadContactRole  string
	leadContactTitle string
)

var leadCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a lead",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		company := model.Company{
			Name:     leadName,
			Domain:   leadDomain,
			Website:  leadWebsite,
			Industry: model.Industry(leadIndustry),
		}

		var contacts []model.Contact
		if leadContactName != "" || leadContactEmail != "" {
			c := model.Contact{
				FullName: leadContactName,
				Email:    leadContactEmail,
				Role:     model.ContactRole(leadContactRole),
				Title:    leadContactTitle,
			}
			contacts = append(contacts, c)
		}

		lead, err := env.registry.Create(company, contacts, leadSource, leadTags)
		if err != nil {
			return err
		}
		if err := saveSnapshot(env.registry); err != nil {
			return err
		}
		return printJSON(cmd, lead)
	},
}

var leadGetCmd = &cobra.Command{
	Use:   "get <lead-id>",
	Short: "Show a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		lead := env.registry.Get(args[0])
		if lead == nil {
			return eris.Errorf("lead %s not found", args[0])
		}
		return printJSON(cmd, lead)
	},
}

var (
	listStatus string
	listTags   []string
	listLimit  int
)

var leadListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		leads := env.registry.List(registry.Filter{
			Status: model.LeadStatus(listStatus),
			Tags:   listTags,
			Limit:  listLimit,
		})
		return printJSON(cmd, leads)
	},
}

var updateSets []string

var leadUpdateCmd = &cobra.Command{
	Use:   "update <lead-id>",
	Short: "Update mutable lead fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		updates, err := parseUpdates(updateSets)
		if err != nil {
			return err
		}

		lead, err := env.registry.Update(args[0], updates)
		if err != nil {
			return err
		}
		if err := saveSnapshot(env.registry); err != nil {
			return err
		}
		return printJSON(cmd, lead)
	},
}

var leadDeleteCmd = &cobra.Command{
	Use:   "delete <lead-id>",
	Short: "Delete a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		if !env.registry.Delete(args[0]) {
			return eris.Errorf("lead %s not found", args[0])
		}
		if err := saveSnapshot(env.registry); err != nil {
			return err
		}
		cmd.Println("deleted", args[0])
		return nil
	},
}

// parseUpdates turns repeated --set key=value flags into field updates. Tags
// take a comma-separated list and merge additively.
func parseUpdates(sets []string) (registry.FieldUpdates, error) {
	updates := make(registry.FieldUpdates, len(sets))
	for _, set := range sets {
		key, value, found := strings.Cut(set, "=")
		if !found {
			return nil, eris.Errorf("invalid --set %q, want key=value", set)
		}
		if key == "tags" {
			updates[key] = strings.Split(value, ",")
			continue
		}
		updates[key] = value
	}
	return updates, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func init() {
	leadCreateCmd.Flags().StringVar(&leadName, "name", "", "company name (required)")
	leadCreateCmd.Flags().StringVar(&leadDomain, "domain", "", "company domain")
	leadCreateCmd.Flags().StringVar(&leadWebsite, "website", "", "company website URL")
	leadCreateCmd.Flags().StringVar(&leadIndustry, "industry", "", "company industry")
	leadCreateCmd.Flags().StringVar(&leadSource, "source", "cli", "where this lead came from")
	leadCreateCmd.Flags().StringSliceVar(&leadTags, "tags", nil, "initial tags")
	leadCreateCmd.Flags().StringVar(&leadContactName, "contact-name", "", "contact full name")
	leadCreateCmd.Flags().StringVar(&leadContactEmail, "contact-email", "", "contact email")
	leadCreateCmd.Flags().StringVar(&leadContactRole, "contact-role", "", "contact role (ceo, cto, developer, product_manager, marketing, sales, other)")
	leadCreateCmd.Flags().StringVar(&leadContactTitle, "contact-title", "", "contact title")
	_ = leadCreateCmd.MarkFlagRequired("name")

	leadListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	leadListCmd.Flags().StringSliceVar(&listTags, "tag", nil, "filter by tag (any-of, repeatable)")
	leadListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of leads")

	leadUpdateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "field update key=value (repeatable)")

	leadCmd.AddCommand(leadCreateCmd, leadGetCmd, leadListCmd, leadUpdateCmd, leadDeleteCmd)
	rootCmd.AddCommand(leadCmd)
}
