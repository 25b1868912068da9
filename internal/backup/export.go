package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/ozgurkzlkaya/fixlog/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	ProductCount  int       `json:"product_count"`
	IssueCount    int       `json:"issue_count"`
	ShipmentCount int       `json:"shipment_count"`
	CompanyCount  int       `json:"company_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// collect pages through a list method and returns every row.
func collect[T any](ctx context.Context, list func(context.Context, query.Options) ([]T, query.PageMeta, error)) ([]T, error) {
	var all []T
	opts := query.Options{
		Sort:     &query.SortSpec{Field: "created_at"},
		Page:     1,
		PageSize: query.MaxPageSize,
	}
	for {
		rows, meta, err := list(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if opts.Page >= meta.PageCount || len(rows) == 0 {
			return all, nil
		}
		opts.Page++
	}
}

// ExportJSONL writes all companies, products, issues, and shipments from the
// store as JSONL to w. Records are ordered so that references point backwards:
// companies first, then products, issues, and shipments.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	companies, err := collect(ctx, s.ListCompanies)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}
	products, err := collect(ctx, s.ListProducts)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	issues, err := collect(ctx, s.ListIssues)
	if err != nil {
		return fmt.Errorf("list issues: %w", err)
	}
	shipments, err := collect(ctx, s.ListShipments)
	if err != nil {
		return fmt.Errorf("list shipments: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		ProductCount:  len(products),
		IssueCount:    len(issues),
		ShipmentCount: len(shipments),
		CompanyCount:  len(companies),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, c := range companies {
		if err := enc.Encode(record{Type: "company", Data: c}); err != nil {
			return fmt.Errorf("encode company %s: %w", c.ID, err)
		}
	}
	for _, p := range products {
		if err := enc.Encode(record{Type: "product", Data: p}); err != nil {
			return fmt.Errorf("encode product %s: %w", p.ID, err)
		}
	}
	for _, i := range issues {
		// Shipments are exported as their own records.
		i.Shipments = nil
		if err := enc.Encode(record{Type: "issue", Data: i}); err != nil {
			return fmt.Errorf("encode issue %s: %w", i.ID, err)
		}
	}
	for _, sh := range shipments {
		if err := enc.Encode(record{Type: "shipment", Data: sh}); err != nil {
			return fmt.Errorf("encode shipment %s: %w", sh.ID, err)
		}
	}

	return nil
}
