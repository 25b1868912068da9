// Package grid implements the data-grid controller: a state machine over
// sorting, column filters, global search, pagination, and row selection
// that compiles its state into a single outbound list query. The controller
// holds no row cache of its own; rows are whatever the last fetch returned.
package grid

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// Row is a single fetched record, keyed by column/field id.
type Row map[string]any

// DataSource fetches one page of rows for a composite query. Implementations
// are typically the typed HTTP client or a CachedSource wrapping it.
type DataSource interface {
	Fetch(ctx context.Context, opts query.Options) ([]Row, query.PageMeta, error)
}

// defaultPageSize mirrors the server-side default.
const defaultPageSize = query.DefaultPageSize

// Controller coordinates grid state and delegates fetching to a DataSource.
type Controller struct {
	cols    []descriptor.ColumnDescriptor
	source  DataSource
	idField string

	mu         sync.Mutex
	sort       *query.SortSpec
	filters    query.FilterSet
	search     string
	pageIndex  int // 0-based; the wire protocol is 1-based
	pageSize   int
	selection  map[string]struct{}
	rows       []Row
	meta       query.PageMeta
	filterErrs []query.FieldError

	// latest is the token of the most recently issued fetch; responses
	// carrying an older token are discarded as stale.
	latest atomic.Uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithIDField sets the row identity field used for selection (default "id").
func WithIDField(field string) Option {
	return func(c *Controller) { c.idField = field }
}

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// New builds a controller over the given columns and data source.
func New(cols []descriptor.ColumnDescriptor, source DataSource, opts ...Option) *Controller {
	c := &Controller{
		cols:      cols,
		source:    source,
		idField:   "id",
		filters:   query.FilterSet{},
		selection: make(map[string]struct{}),
		pageSize:  defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToggleSort cycles a sortable column through ascending → descending →
// unsorted. Only one column is sorted at a time; toggling a different
// column replaces the active sort.
func (c *Controller) ToggleSort(colID string) {
	col := c.column(colID)
	if col == nil || !col.Sortable {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.sort == nil || c.sort.Field != colID:
		c.sort = &query.SortSpec{Field: colID}
	case !c.sort.Desc:
		c.sort = &query.SortSpec{Field: colID, Desc: true}
	default:
		c.sort = nil
	}
}

// Sort returns the active sort, or nil when unsorted.
func (c *Controller) Sort() *query.SortSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sort == nil {
		return nil
	}
	s := *c.sort
	return &s
}

// SetFilter records a raw column-filter value (blank clears the entry) and
// resets the page index: a narrowed result set invalidates the old page.
func (c *Controller) SetFilter(fieldID, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Set(fieldID, raw)
	c.pageIndex = 0
}

// SetSearch updates the global free-text search and resets the page index.
func (c *Controller) SetSearch(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.search == s {
		return
	}
	c.search = s
	c.pageIndex = 0
}

// PageIndex returns the current 0-based page index.
func (c *Controller) PageIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageIndex
}

// SetPageIndex moves to a page without altering any other state.
func (c *Controller) SetPageIndex(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 {
		i = 0
	}
	c.pageIndex = i
}

// PageSize returns the current page size.
func (c *Controller) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// SetPageSize changes the page size and always resets the page index to 0;
// keeping the old index against a different page size would address an
// out-of-range page.
func (c *Controller) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = n
	c.pageIndex = 0
}

// Select marks a row id as selected.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection[id] = struct{}{}
}

// Deselect removes a row id from the selection.
func (c *Controller) Deselect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selection, id)
}

// Selected returns the selected row ids in sorted order.
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.selection))
	for id := range c.selection {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ClearSelection drops all selected rows.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = make(map[string]struct{})
}

// Rows returns the rows from the last applied fetch.
func (c *Controller) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Meta returns the pagination metadata from the last applied fetch.
func (c *Controller) Meta() query.PageMeta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}

// FilterErrors returns the translation errors from the last query build.
// Fields listed here contributed nothing to the outbound filter.
func (c *Controller) FilterErrors() []query.FieldError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterErrs
}

// Query compiles the current state into list-query options. Filter fields
// with invalid values are withheld and reported via FilterErrors.
func (c *Controller) Query() query.Options {
	c.mu.Lock()
	filters := c.filters.Clone()
	searchVal := c.search
	sortSpec := c.sort
	page := c.pageIndex + 1
	size := c.pageSize
	c.mu.Unlock()

	filter, errs := query.Translate(c.cols, filters)

	c.mu.Lock()
	c.filterErrs = errs
	c.mu.Unlock()

	return query.Options{
		Filter:   filter,
		Search:   searchVal,
		Sort:     sortSpec,
		Page:     page,
		PageSize: size,
	}
}

// Refresh fetches the current page. Selection is cleared when the new data
// lands (selected rows may no longer be present), and the page index
// re-syncs against the server-reported page count. A response that resolves
// after a newer Refresh has been issued is discarded.
func (c *Controller) Refresh(ctx context.Context) error {
	opts := c.Query()
	token := c.latest.Add(1)

	rows, meta, err := c.source.Fetch(ctx, opts)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.latest.Load() {
		// A newer fetch has been issued; this response is stale.
		return nil
	}
	c.rows = rows
	c.meta = meta
	c.selection = make(map[string]struct{})
	if meta.PageCount > 0 && c.pageIndex >= meta.PageCount {
		c.pageIndex = meta.PageCount - 1
	}
	return nil
}

// IDField returns the configured row identity field.
func (c *Controller) IDField() string { return c.idField }

// RowID extracts a row's identity as a string.
func (c *Controller) RowID(r Row) string {
	if v, ok := r[c.idField]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (c *Controller) column(id string) *descriptor.ColumnDescriptor {
	for i := range c.cols {
		if c.cols[i].ID == id {
			return &c.cols[i]
		}
	}
	return nil
}
