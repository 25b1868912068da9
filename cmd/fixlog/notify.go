package main

import (
	"context"
	"fmt"

	"github.com/ozgurkzlkaya/fixlog/internal/ui"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notify", "ntf"},
	Short:   "List and acknowledge notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")
		limit, _ := cmd.Flags().GetInt("limit")

		notifications, err := api.ListNotifications(context.Background(), unread, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(notifications)
		}
		if len(notifications) == 0 {
			fmt.Println(ui.RenderMuted("no notifications"))
			return nil
		}
		printNotificationTable(notifications)
		return nil
	},
}

var notifyReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.MarkNotificationRead(context.Background(), args[0])
	},
}

var notifyReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark all notifications as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.MarkAllNotificationsRead(context.Background())
	},
}

func init() {
	notifyCmd.Flags().Bool("unread", false, "only unread notifications")
	notifyCmd.Flags().Int("limit", 0, "maximum number to return")
	notifyCmd.AddCommand(notifyReadCmd, notifyReadAllCmd)
}
