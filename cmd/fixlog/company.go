package main

import (
	"context"
	"fmt"

	"github.com/ozgurkzlkaya/fixlog/internal/client"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/spf13/cobra"
)

var companyCmd = &cobra.Command{
	Use:     "company",
	Aliases: []string{"companies", "cmp"},
	Short:   "Manage customer and manufacturer companies",
}

var companyCreateCmd = &cobra.Command{
	Use:   "create <name> <kind>",
	Short: "Create a company (kind: customer or manufacturer)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateCompanyRequest{
			Name:  args[0],
			Kind:  args[1],
			Actor: actor,
		}
		req.Email, _ = cmd.Flags().GetString("email")
		req.Phone, _ = cmd.Flags().GetString("phone")
		req.Address, _ = cmd.Flags().GetString("address")

		c, err := api.CreateCompany(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(c)
		}
		printCompany(c)
		return nil
	},
}

var companyListFlags listFlags

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")

		set := query.FilterSet{}
		set.Set("kind", kind)

		opts, err := companyListFlags.options(companyColumns, set)
		if err != nil {
			return err
		}
		companies, meta, err := api.ListCompanies(context.Background(), opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(companies)
		}
		printCompanyTable(companies, meta)
		return nil
	},
}

var companyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := api.GetCompany(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(c)
		}
		printCompany(c)
		return nil
	},
}

var companyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateCompanyRequest{Actor: actor}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("kind") {
			v, _ := cmd.Flags().GetString("kind")
			req.Kind = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			req.Email = &v
		}
		if cmd.Flags().Changed("phone") {
			v, _ := cmd.Flags().GetString("phone")
			req.Phone = &v
		}
		if cmd.Flags().Changed("address") {
			v, _ := cmd.Flags().GetString("address")
			req.Address = &v
		}

		c, err := api.UpdateCompany(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(c)
		}
		printCompany(c)
		return nil
	},
}

var companyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return confirmDelete(ctx, fmt.Sprintf("delete company %s?", args[0]), func(ctx context.Context) error {
			if err := api.DeleteCompany(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	companyCreateCmd.Flags().String("email", "", "contact email")
	companyCreateCmd.Flags().String("phone", "", "contact phone")
	companyCreateCmd.Flags().String("address", "", "postal address")

	companyListFlags.register(companyListCmd)
	companyListCmd.Flags().String("kind", "", "filter by kind (customer, manufacturer)")

	companyUpdateCmd.Flags().String("name", "", "company name")
	companyUpdateCmd.Flags().String("kind", "", "kind (customer, manufacturer)")
	companyUpdateCmd.Flags().String("email", "", "contact email")
	companyUpdateCmd.Flags().String("phone", "", "contact phone")
	companyUpdateCmd.Flags().String("address", "", "postal address")

	companyCmd.AddCommand(companyCreateCmd, companyListCmd, companyShowCmd, companyUpdateCmd, companyDeleteCmd)
}
