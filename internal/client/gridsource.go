package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ozgurkzlkaya/fixlog/internal/grid"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// ListFunc is any typed list call on FixlogClient.
type ListFunc[T any] func(ctx context.Context, opts query.Options) ([]T, query.PageMeta, error)

// gridSource adapts a typed list call to the grid's DataSource. Rows are
// keyed by the entities' JSON field names, which the column descriptors use
// as accessor keys.
type gridSource[T any] struct {
	list ListFunc[T]
}

func (s gridSource[T]) Fetch(ctx context.Context, opts query.Options) ([]grid.Row, query.PageMeta, error) {
	items, meta, err := s.list(ctx, opts)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	rows := make([]grid.Row, 0, len(items))
	for _, item := range items {
		row, err := toRow(item)
		if err != nil {
			return nil, query.PageMeta{}, err
		}
		rows = append(rows, row)
	}
	return rows, meta, nil
}

func toRow(item any) (grid.Row, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %w", err)
	}
	var row grid.Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decoding row: %w", err)
	}
	return row, nil
}

// NewGridSource wraps a typed list call as a grid DataSource.
func NewGridSource[T any](list ListFunc[T]) grid.DataSource {
	return gridSource[T]{list: list}
}
