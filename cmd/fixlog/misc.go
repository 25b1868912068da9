package main

import (
	"context"
	"fmt"

	"github.com/ozgurkzlkaya/fixlog/internal/ui"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events <entity-id>",
	Short: "Show the audit trail for an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := api.GetEvents(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(events)
		}
		if len(events) == 0 {
			fmt.Println(ui.RenderMuted("no events"))
			return nil
		}
		printEventTable(events)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard summary counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := api.GetStats(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}
		printStats(s)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := api.Health(context.Background())
		if err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}
		fmt.Println(status)
		return nil
	},
}
