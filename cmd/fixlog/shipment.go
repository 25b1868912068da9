package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ozgurkzlkaya/fixlog/internal/client"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/spf13/cobra"
)

var shipmentCmd = &cobra.Command{
	Use:     "shipment",
	Aliases: []string{"shipments", "shp"},
	Short:   "Manage shipments tied to repair issues",
}

var shipmentCreateCmd = &cobra.Command{
	Use:   "create <issue-id> <direction>",
	Short: "Create a shipment (direction: inbound or outbound)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateShipmentRequest{
			IssueID:   args[0],
			Direction: args[1],
			Actor:     actor,
		}
		req.Carrier, _ = cmd.Flags().GetString("carrier")
		req.Tracking, _ = cmd.Flags().GetString("tracking")
		req.Status, _ = cmd.Flags().GetString("status")

		sh, err := api.CreateShipment(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sh)
		}
		printShipment(sh)
		return nil
	},
}

var shipmentListFlags listFlags

var shipmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shipments",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, _ := cmd.Flags().GetStringSlice("status")
		issue, _ := cmd.Flags().GetString("issue")
		direction, _ := cmd.Flags().GetString("direction")

		set := query.FilterSet{}
		set.Set("status", strings.Join(statuses, ","))
		set.Set("issue_id", issue)
		set.Set("direction", direction)

		opts, err := shipmentListFlags.options(shipmentColumns, set)
		if err != nil {
			return err
		}
		shipments, meta, err := api.ListShipments(context.Background(), opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(shipments)
		}
		printShipmentTable(shipments, meta)
		return nil
	},
}

var shipmentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := api.GetShipment(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sh)
		}
		printShipment(sh)
		return nil
	},
}

var shipmentUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateShipmentRequest{Actor: actor}
		if cmd.Flags().Changed("carrier") {
			v, _ := cmd.Flags().GetString("carrier")
			req.Carrier = &v
		}
		if cmd.Flags().Changed("tracking") {
			v, _ := cmd.Flags().GetString("tracking")
			req.Tracking = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		var err error
		if cmd.Flags().Changed("shipped-at") {
			v, _ := cmd.Flags().GetString("shipped-at")
			if req.ShippedAt, err = parseDate(v); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("delivered-at") {
			v, _ := cmd.Flags().GetString("delivered-at")
			if req.DeliveredAt, err = parseDate(v); err != nil {
				return err
			}
		}

		sh, err := api.UpdateShipment(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sh)
		}
		printShipment(sh)
		return nil
	},
}

var shipmentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return confirmDelete(ctx, fmt.Sprintf("delete shipment %s?", args[0]), func(ctx context.Context) error {
			if err := api.DeleteShipment(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	shipmentCreateCmd.Flags().String("carrier", "", "carrier name")
	shipmentCreateCmd.Flags().String("tracking", "", "tracking number")
	shipmentCreateCmd.Flags().String("status", "", "initial status (default preparing)")

	shipmentListFlags.register(shipmentListCmd)
	shipmentListCmd.Flags().StringSlice("status", nil, "filter by status (repeatable)")
	shipmentListCmd.Flags().String("issue", "", "filter by issue ID")
	shipmentListCmd.Flags().String("direction", "", "filter by direction")

	shipmentUpdateCmd.Flags().String("carrier", "", "carrier name")
	shipmentUpdateCmd.Flags().String("tracking", "", "tracking number")
	shipmentUpdateCmd.Flags().String("status", "", "status (preparing, shipped, delivered, lost)")
	shipmentUpdateCmd.Flags().String("shipped-at", "", "ship date (YYYY-MM-DD)")
	shipmentUpdateCmd.Flags().String("delivered-at", "", "delivery date (YYYY-MM-DD)")

	shipmentCmd.AddCommand(shipmentCreateCmd, shipmentListCmd, shipmentShowCmd, shipmentUpdateCmd, shipmentDeleteCmd)
}
