package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ozgurkzlkaya/fixlog/internal/client"
	"github.com/ozgurkzlkaya/fixlog/internal/dialog"
	"github.com/ozgurkzlkaya/fixlog/internal/form"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:     "issue",
	Aliases: []string{"issues", "iss"},
	Short:   "Manage repair issues",
}

var issueCreateCmd = &cobra.Command{
	Use:   "create <product-id> <title>",
	Short: "Report an issue against a product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var created *model.Issue
		d := dialog.NewFormDialog(issueFormFields,
			func(ctx context.Context, values map[string]any) error {
				is, err := api.CreateIssue(ctx, issueCreateRequest(values))
				if err != nil {
					return err
				}
				created = is
				return nil
			}, nil)

		d.OpenCreate()
		f := d.Form()
		f.SetValue("product_id", args[0])
		f.SetValue("title", args[1])
		for flag, field := range map[string]string{
			"description": "description",
			"category":    "category",
			"assignee":    "assignee",
			"company":     "company_id",
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				f.SetValue(field, v)
			}
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetInt("priority")
			f.SetValue("priority", v)
		}

		if err := d.Submit(context.Background()); err != nil {
			if errors.Is(err, form.ErrInvalid) {
				return formError(f)
			}
			return err
		}
		if jsonOutput {
			return printJSON(created)
		}
		printIssue(created)
		return nil
	},
}

var issueListFlags listFlags

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, _ := cmd.Flags().GetStringSlice("status")
		categories, _ := cmd.Flags().GetStringSlice("category")
		assignee, _ := cmd.Flags().GetString("assignee")
		product, _ := cmd.Flags().GetString("product")
		company, _ := cmd.Flags().GetString("company")

		set := query.FilterSet{}
		set.Set("status", strings.Join(statuses, ","))
		set.Set("category", strings.Join(categories, ","))
		set.Set("assignee", assignee)
		set.Set("product_id", product)
		set.Set("company_id", company)

		opts, err := issueListFlags.options(issueColumns, set)
		if err != nil {
			return err
		}
		issues, meta, err := api.ListIssues(context.Background(), opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(issues)
		}
		printIssueTable(issues, meta)
		return nil
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an issue with its shipments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		is, err := api.GetIssue(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(is)
		}
		printIssue(is)
		return nil
	},
}

var issueUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateIssueRequest{Actor: actor}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			req.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetInt("priority")
			req.Priority = &v
		}
		if cmd.Flags().Changed("category") {
			v, _ := cmd.Flags().GetString("category")
			req.Category = &v
		}
		if cmd.Flags().Changed("assignee") {
			v, _ := cmd.Flags().GetString("assignee")
			req.Assignee = &v
		}

		is, err := api.UpdateIssue(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(is)
		}
		printIssue(is)
		return nil
	},
}

var issueResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Mark an issue resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		is, err := api.ResolveIssue(context.Background(), args[0], actor)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(is)
		}
		printIssue(is)
		return nil
	},
}

var issueDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more issues",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bulk := dialog.NewBulk(deletePrompt, dialog.BulkAction{
			Name:    "delete",
			Confirm: "delete %d issue(s)?",
			Run: func(ctx context.Context, ids []string) error {
				for _, id := range ids {
					if err := api.DeleteIssue(ctx, id); err != nil {
						return fmt.Errorf("deleting %s: %w", id, err)
					}
					fmt.Printf("deleted %s\n", id)
				}
				return nil
			},
		})
		err := bulk.Execute(context.Background(), "delete", args)
		if errors.Is(err, dialog.ErrDeclined) {
			return errCancelled
		}
		return err
	},
}

func init() {
	issueCreateCmd.Flags().String("description", "", "issue description")
	issueCreateCmd.Flags().Int("priority", 1, "priority 0-3")
	issueCreateCmd.Flags().String("category", "", "category (mechanical, electrical, software, cosmetic, other)")
	issueCreateCmd.Flags().String("assignee", "", "assigned technician")
	issueCreateCmd.Flags().String("company", "", "customer company ID (defaults to the product's)")

	issueListFlags.register(issueListCmd)
	issueListCmd.Flags().StringSlice("status", nil, "filter by status (repeatable)")
	issueListCmd.Flags().StringSlice("category", nil, "filter by category (repeatable)")
	issueListCmd.Flags().String("assignee", "", "filter by assignee")
	issueListCmd.Flags().String("product", "", "filter by product ID")
	issueListCmd.Flags().String("company", "", "filter by company ID")

	issueUpdateCmd.Flags().String("title", "", "title")
	issueUpdateCmd.Flags().String("description", "", "description")
	issueUpdateCmd.Flags().String("status", "", "status (open, in_repair, waiting_parts, closed)")
	issueUpdateCmd.Flags().Int("priority", 0, "priority 0-3")
	issueUpdateCmd.Flags().String("category", "", "category")
	issueUpdateCmd.Flags().String("assignee", "", "assigned technician")

	issueCmd.AddCommand(issueCreateCmd, issueListCmd, issueShowCmd, issueUpdateCmd, issueResolveCmd, issueDeleteCmd)
}
