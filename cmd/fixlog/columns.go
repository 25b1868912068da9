package main

import (
	"fmt"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
)

// Column sets for the list and watch commands. IDs match the entities'
// JSON field names, which are also the server's filterable columns; flag
// values flow through these descriptors into normalized filter clauses.

func statusOptions[S fmt.Stringer](statuses []S) []descriptor.Option {
	opts := make([]descriptor.Option, len(statuses))
	for i, s := range statuses {
		opts[i] = descriptor.Option{Value: s.String(), Label: s.String()}
	}
	return opts
}

var productColumns = []descriptor.ColumnDescriptor{
	{ID: "serial", Label: "SERIAL", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterText, FilterOperator: "eq"},
	{ID: "model_name", Label: "MODEL", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterText},
	{ID: "model_type", Label: "TYPE", Filterable: true,
		FilterKind: descriptor.FilterMultiselect},
	{ID: "company_id", Label: "COMPANY", Filterable: true,
		FilterKind: descriptor.FilterText, FilterOperator: "eq"},
	{ID: "status", Label: "STATUS", Sortable: true, Filterable: true,
		FilterKind:    descriptor.FilterMultiselect,
		FilterOptions: statusOptions(model.ProductStatuses())},
	{ID: "warranty_start", Label: "WARRANTY FROM", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterDateRange, Format: formatCellDate},
	{ID: "warranty_end", Label: "WARRANTY TO", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterDateRange, Format: formatCellDate},
}

var issueColumns = []descriptor.ColumnDescriptor{
	{ID: "id", Label: "ID", Width: 14},
	{ID: "product_id", Label: "PRODUCT", Filterable: true,
		FilterKind: descriptor.FilterText, FilterOperator: "eq"},
	{ID: "company_id", Label: "COMPANY", Filterable: true,
		FilterKind: descriptor.FilterText, FilterOperator: "eq"},
	{ID: "title", Label: "TITLE", Width: 40, Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterText, Format: truncateCell(40)},
	{ID: "status", Label: "STATUS", Sortable: true, Filterable: true,
		FilterKind:    descriptor.FilterMultiselect,
		FilterOptions: statusOptions(model.IssueStatuses())},
	{ID: "priority", Label: "PRI", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterNumberRange, Format: formatCellNumber},
	{ID: "category", Label: "CATEGORY", Filterable: true,
		FilterKind: descriptor.FilterMultiselect},
	{ID: "assignee", Label: "ASSIGNEE", Filterable: true,
		FilterKind: descriptor.FilterText, FilterOperator: "eq"},
	{ID: "reported_at", Label: "REPORTED", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterDateRange, Format: formatCellDate},
	{ID: "resolved_at", Label: "RESOLVED", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterDateRange, Format: formatCellDate},
}

var shipmentColumns = []descriptor.ColumnDescriptor{
	{ID: "id", Label: "ID", Width: 14},
	{ID: "issue_id", Label: "ISSUE", Filterable: true,
		FilterKind: descriptor.FilterText, FilterOperator: "eq"},
	{ID: "direction", Label: "DIR", Filterable: true,
		FilterKind: descriptor.FilterMultiselect,
		FilterOptions: []descriptor.Option{
			{Value: model.DirectionInbound.String(), Label: "inbound"},
			{Value: model.DirectionOutbound.String(), Label: "outbound"},
		}},
	{ID: "carrier", Label: "CARRIER", Filterable: true,
		FilterKind: descriptor.FilterText},
	{ID: "tracking", Label: "TRACKING", Filterable: true,
		FilterKind: descriptor.FilterText, FilterOperator: "eq"},
	{ID: "status", Label: "STATUS", Sortable: true, Filterable: true,
		FilterKind:    descriptor.FilterMultiselect,
		FilterOptions: statusOptions(model.ShipmentStatuses())},
	{ID: "shipped_at", Label: "SHIPPED", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterDateRange, Format: formatCellDate},
	{ID: "delivered_at", Label: "DELIVERED", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterDateRange, Format: formatCellDate},
}

var companyColumns = []descriptor.ColumnDescriptor{
	{ID: "id", Label: "ID", Width: 14},
	{ID: "name", Label: "NAME", Sortable: true, Filterable: true,
		FilterKind: descriptor.FilterText},
	{ID: "kind", Label: "KIND", Filterable: true,
		FilterKind: descriptor.FilterMultiselect,
		FilterOptions: []descriptor.Option{
			{Value: model.CompanyCustomer.String(), Label: "customer"},
			{Value: model.CompanyManufacturer.String(), Label: "manufacturer"},
		}},
	{ID: "email", Label: "EMAIL", Filterable: true,
		FilterKind: descriptor.FilterText},
	{ID: "phone", Label: "PHONE", Filterable: true,
		FilterKind: descriptor.FilterStartsWith},
}

// pickColumns selects a display subset of a column set by id, in the
// given order.
func pickColumns(cols []descriptor.ColumnDescriptor, ids ...string) []descriptor.ColumnDescriptor {
	out := make([]descriptor.ColumnDescriptor, 0, len(ids))
	for _, id := range ids {
		for i := range cols {
			if cols[i].ID == id {
				out = append(out, cols[i])
				break
			}
		}
	}
	return out
}

// formatCellDate renders a JSON timestamp value as a date. Null and
// non-string values pass through as-is.
func formatCellDate(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		if v == nil {
			return "-"
		}
		return fmt.Sprint(v)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

// formatCellNumber strips the float tail JSON decoding gives integers.
func formatCellNumber(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

func truncateCell(max int) func(any) string {
	return func(v any) string {
		return truncate(fmt.Sprint(v), max)
	}
}
