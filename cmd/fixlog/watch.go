package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ozgurkzlkaya/fixlog/internal/client"
	"github.com/ozgurkzlkaya/fixlog/internal/events"
	"github.com/ozgurkzlkaya/fixlog/internal/grid"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/spf13/cobra"
)

var watchListFlags listFlags

// watchColumns is the display subset; the controller filters and sorts
// over the full issue column set.
var watchColumns = pickColumns(issueColumns,
	"id", "title", "status", "priority", "assignee", "reported_at")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for issue changes matching the given filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		statuses, _ := cmd.Flags().GetStringSlice("status")
		assignee, _ := cmd.Flags().GetString("assignee")

		ctrl := grid.New(issueColumns, client.NewGridSource(api.ListIssues),
			grid.WithPageSize(watchListFlags.pageSize))
		ctrl.SetSearch(watchListFlags.search)
		ctrl.SetFilter("status", strings.Join(statuses, ","))
		ctrl.SetFilter("assignee", assignee)
		set, err := watchListFlags.filterSet(nil)
		if err != nil {
			return err
		}
		for field, value := range set {
			ctrl.SetFilter(field, value)
		}
		if spec := query.ParseSort(watchListFlags.sort); spec != nil {
			ctrl.ToggleSort(spec.Field)
			if spec.Desc {
				ctrl.ToggleSort(spec.Field)
			}
		}
		if watchListFlags.page > 1 {
			ctrl.SetPageIndex(watchListFlags.page - 1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]string)

		if err := refreshAndPrint(ctx, ctrl, seen); err != nil {
			return err
		}
		if ferrs := ctrl.FilterErrors(); len(ferrs) > 0 {
			return fmt.Errorf("invalid filter on %s: %s", ferrs[0].Field, ferrs[0].Message)
		}
		if once {
			return nil
		}

		natsURL := os.Getenv("FIXLOG_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, ctrl, seen)
		}
		return watchPoll(ctx, interval, ctrl, seen)
	},
}

// watchNATS subscribes to NATS events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL string, ctrl *grid.Controller, seen map[string]string) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("fixlog.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := refreshAndPrint(ctx, ctrl, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, ctrl *grid.Controller, seen map[string]string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := refreshAndPrint(ctx, ctrl, seen); err != nil {
			return err
		}
	}
}

// refreshAndPrint re-fetches the controller's page, diffs against the seen
// map, and prints any changed rows.
func refreshAndPrint(ctx context.Context, ctrl *grid.Controller, seen map[string]string) error {
	if err := ctrl.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	changed := diffRows(ctrl, seen)
	if len(changed) == 0 {
		return nil
	}
	if jsonOutput {
		return printJSON(changed)
	}
	printRowTable(watchColumns, changed)
	return nil
}

// diffRows returns the rows that are new or carry a different updated_at
// than last time. It updates seen in place.
func diffRows(ctrl *grid.Controller, seen map[string]string) []grid.Row {
	var changed []grid.Row
	for _, r := range ctrl.Rows() {
		id := ctrl.RowID(r)
		if id == "" {
			continue
		}
		stamp, _ := r["updated_at"].(string)
		if prev, ok := seen[id]; !ok || prev != stamp {
			changed = append(changed, r)
		}
		seen[id] = stamp
	}
	return changed
}

func init() {
	watchListFlags.register(watchCmd)
	watchCmd.Flags().StringSlice("status", nil, "filter by status (repeatable)")
	watchCmd.Flags().String("assignee", "", "filter by assignee")
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
}
