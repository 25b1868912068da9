package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/client"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"products", "prd"},
	Short:   "Manage tracked product units",
}

// parseDate parses a YYYY-MM-DD flag value; empty means nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

var productCreateCmd = &cobra.Command{
	Use:   "create <serial> <model-name>",
	Short: "Register a product unit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateProductRequest{
			Serial:    args[0],
			ModelName: args[1],
			Actor:     actor,
		}
		req.ModelType, _ = cmd.Flags().GetString("type")
		req.CompanyID, _ = cmd.Flags().GetString("company")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Notes, _ = cmd.Flags().GetString("notes")

		var err error
		start, _ := cmd.Flags().GetString("warranty-start")
		if req.WarrantyStart, err = parseDate(start); err != nil {
			return err
		}
		end, _ := cmd.Flags().GetString("warranty-end")
		if req.WarrantyEnd, err = parseDate(end); err != nil {
			return err
		}

		p, err := api.CreateProduct(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		printProduct(p)
		return nil
	},
}

var productListFlags listFlags

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, _ := cmd.Flags().GetStringSlice("status")
		company, _ := cmd.Flags().GetString("company")
		modelName, _ := cmd.Flags().GetString("model")

		set := query.FilterSet{}
		set.Set("status", strings.Join(statuses, ","))
		set.Set("company_id", company)
		set.Set("model_name", modelName)

		opts, err := productListFlags.options(productColumns, set)
		if err != nil {
			return err
		}
		products, meta, err := api.ListProducts(context.Background(), opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(products)
		}
		printProductTable(products, meta)
		return nil
	},
}

var productShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := api.GetProduct(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		printProduct(p)
		return nil
	},
}

var productUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateProductRequest{Actor: actor}
		if cmd.Flags().Changed("model-name") {
			v, _ := cmd.Flags().GetString("model-name")
			req.ModelName = &v
		}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			req.ModelType = &v
		}
		if cmd.Flags().Changed("company") {
			v, _ := cmd.Flags().GetString("company")
			req.CompanyID = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("notes") {
			v, _ := cmd.Flags().GetString("notes")
			req.Notes = &v
		}
		var err error
		if cmd.Flags().Changed("warranty-start") {
			v, _ := cmd.Flags().GetString("warranty-start")
			if req.WarrantyStart, err = parseDate(v); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("warranty-end") {
			v, _ := cmd.Flags().GetString("warranty-end")
			if req.WarrantyEnd, err = parseDate(v); err != nil {
				return err
			}
		}

		p, err := api.UpdateProduct(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		printProduct(p)
		return nil
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return confirmDelete(ctx, fmt.Sprintf("delete product %s?", args[0]), func(ctx context.Context) error {
			if err := api.DeleteProduct(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	productCreateCmd.Flags().String("type", "", "model type")
	productCreateCmd.Flags().String("company", "", "owning company ID")
	productCreateCmd.Flags().String("status", "", "initial status (default active)")
	productCreateCmd.Flags().String("notes", "", "free-form notes")
	productCreateCmd.Flags().String("warranty-start", "", "warranty start date (YYYY-MM-DD)")
	productCreateCmd.Flags().String("warranty-end", "", "warranty end date (YYYY-MM-DD)")

	productListFlags.register(productListCmd)
	productListCmd.Flags().StringSlice("status", nil, "filter by status (repeatable)")
	productListCmd.Flags().String("company", "", "filter by company ID")
	productListCmd.Flags().String("model", "", "filter by model name (substring)")

	productUpdateCmd.Flags().String("model-name", "", "model name")
	productUpdateCmd.Flags().String("type", "", "model type")
	productUpdateCmd.Flags().String("company", "", "owning company ID")
	productUpdateCmd.Flags().String("status", "", "status")
	productUpdateCmd.Flags().String("notes", "", "free-form notes")
	productUpdateCmd.Flags().String("warranty-start", "", "warranty start date (YYYY-MM-DD)")
	productUpdateCmd.Flags().String("warranty-end", "", "warranty end date (YYYY-MM-DD)")

	productCmd.AddCommand(productCreateCmd, productListCmd, productShowCmd, productUpdateCmd, productDeleteCmd)
}
