package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/dialog"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/spf13/cobra"
)

// listFlags are the common flags shared by every `fixlog <entity> list`
// command. Filter values are raw column inputs; options() runs them
// through the column descriptors to produce normalized clauses.
type listFlags struct {
	search   string
	sort     string
	page     int
	pageSize int
	filters  []string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "free-text search")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort field, prefix with - for descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", query.DefaultPageSize, "results per page")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil,
		"column filter as field=value (repeatable); ranges use low,high")
}

// filterSet merges --filter flags into the command's own filter values.
// Later --filter entries win over the dedicated flags.
func (f *listFlags) filterSet(set query.FilterSet) (query.FilterSet, error) {
	if set == nil {
		set = query.FilterSet{}
	}
	for _, kv := range f.filters {
		field, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --filter %q (want field=value)", kv)
		}
		set.Set(strings.TrimSpace(field), strings.TrimSpace(value))
	}
	return set, nil
}

// options compiles the flags into list-query options, translating filter
// inputs via the entity's column descriptors. The first bad filter value
// aborts the command instead of silently dropping the field.
func (f *listFlags) options(cols []descriptor.ColumnDescriptor, set query.FilterSet) (query.Options, error) {
	set, err := f.filterSet(set)
	if err != nil {
		return query.Options{}, err
	}
	filter, ferrs := query.Translate(cols, set)
	if len(ferrs) > 0 {
		return query.Options{}, fmt.Errorf("invalid filter on %s: %s", ferrs[0].Field, ferrs[0].Message)
	}
	return query.Options{
		Filter:   filter,
		Search:   f.search,
		Sort:     query.ParseSort(f.sort),
		Page:     f.page,
		PageSize: f.pageSize,
	}, nil
}

var errCancelled = errors.New("cancelled")

// confirmDelete asks the user before running action, unless --yes was
// given. The prompt reads a single line from stdin.
func confirmDelete(ctx context.Context, message string, action dialog.Action) error {
	c := &dialog.Confirm{}
	c.OpenTitled("Delete", message, dialog.SeverityDanger, action)
	if !assumeYes {
		ok, err := stdinPrompt.Ask(ctx, c.Message())
		if err != nil {
			return err
		}
		if !ok {
			c.Cancel()
			return errCancelled
		}
	}
	return c.Accept(ctx)
}

var stdinPrompt = dialog.PromptFunc(func(ctx context.Context, message string) (bool, error) {
	fmt.Printf("%s [y/N] ", message)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
})

// deletePrompt backs bulk deletes: --yes short-circuits the stdin prompt.
var deletePrompt = dialog.PromptFunc(func(ctx context.Context, message string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	return stdinPrompt.Ask(ctx, message)
})
