package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Default and maximum page sizes enforced by DecodeOptions.
const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// SortSpec is a single-column sort. The grid supports one active sort at a
// time, toggled through unsorted → ascending → descending → unsorted.
type SortSpec struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// String renders the sort in wire form: "field" or "-field" for descending.
func (s SortSpec) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// ParseSort parses the wire form of a sort; an empty string yields nil.
func ParseSort(raw string) *SortSpec {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil
	}
	if strings.HasPrefix(raw, "-") {
		return &SortSpec{Field: strings.TrimPrefix(raw, "-"), Desc: true}
	}
	return &SortSpec{Field: raw}
}

// PageMeta is the server-reported pagination metadata. The server is the
// source of truth for Total; clients re-sync their page state from it.
type PageMeta struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// NewPageMeta computes metadata for a page request against a total count.
func NewPageMeta(page, pageSize, total int) PageMeta {
	pageCount := 0
	if pageSize > 0 {
		pageCount = (total + pageSize - 1) / pageSize
	}
	return PageMeta{Page: page, PageSize: pageSize, PageCount: pageCount, Total: total}
}

// Options is the composite list-query sent to the server: filter, global
// free-text search, sort, and 1-based pagination.
type Options struct {
	Filter   Filter
	Search   string
	Sort     *SortSpec
	Page     int
	PageSize int
}

// Encode renders the options as URL query values.
func (o Options) Encode() url.Values {
	vals := url.Values{}
	o.Filter.Encode(vals)
	if o.Search != "" {
		vals.Set("search", o.Search)
	}
	if o.Sort != nil {
		vals.Set("sort", o.Sort.String())
	}
	if o.Page > 0 {
		vals.Set("pagination[page]", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		vals.Set("pagination[pageSize]", strconv.Itoa(o.PageSize))
	}
	return vals
}

// DecodeOptions parses list-query options from URL query values, applying
// pagination defaults and caps.
func DecodeOptions(vals url.Values) (Options, error) {
	filter, err := DecodeFilter(vals)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Filter:   filter,
		Search:   strings.TrimSpace(vals.Get("search")),
		Sort:     ParseSort(vals.Get("sort")),
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if raw := vals.Get("pagination[page]"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Options{}, fmt.Errorf("invalid page %q", raw)
		}
		opts.Page = n
	}
	if raw := vals.Get("pagination[pageSize]"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Options{}, fmt.Errorf("invalid page size %q", raw)
		}
		if n > MaxPageSize {
			n = MaxPageSize
		}
		opts.PageSize = n
	}

	return opts, nil
}

// Offset returns the row offset for the requested page.
func (o Options) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PageSize
}
