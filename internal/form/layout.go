package form

import (
	"sort"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
)

// Rows groups the visible fields into layout rows. Fields with a layout
// hint are grouped by row index (ascending) and column-sorted within each
// row; fields without a hint fall back to single-column stacked rows after
// all hinted rows. Within a row, every field gets an even share of the
// width regardless of semantics.
func (e *Engine) Rows() [][]descriptor.FieldDescriptor {
	visible := e.Visible()

	hinted := make(map[int][]descriptor.FieldDescriptor)
	var rowIndexes []int
	var unhinted []descriptor.FieldDescriptor

	for _, f := range visible {
		if f.Layout == nil {
			unhinted = append(unhinted, f)
			continue
		}
		if _, ok := hinted[f.Layout.Row]; !ok {
			rowIndexes = append(rowIndexes, f.Layout.Row)
		}
		hinted[f.Layout.Row] = append(hinted[f.Layout.Row], f)
	}
	sort.Ints(rowIndexes)

	var rows [][]descriptor.FieldDescriptor
	for _, idx := range rowIndexes {
		row := hinted[idx]
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].Layout.Column < row[j].Layout.Column
		})
		rows = append(rows, row)
	}
	for _, f := range unhinted {
		rows = append(rows, []descriptor.FieldDescriptor{f})
	}
	return rows
}
