package grid

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

type fakeSource struct {
	mu      sync.Mutex
	calls   int
	lastOpt query.Options
	rows    []Row
	meta    query.PageMeta
	err     error

	// release, when set, blocks Fetch until closed.
	release chan struct{}
}

func (f *fakeSource) Fetch(ctx context.Context, opts query.Options) ([]Row, query.PageMeta, error) {
	f.mu.Lock()
	f.calls++
	f.lastOpt = opts
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	f.mu.Lock()
	rows, meta, err := f.rows, f.meta, f.err
	f.mu.Unlock()
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	return rows, meta, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testColumns() []descriptor.ColumnDescriptor {
	return []descriptor.ColumnDescriptor{
		{ID: "name", Label: "Name", Sortable: true, Filterable: true, FilterKind: descriptor.FilterText},
		{ID: "status", Label: "Status", Sortable: true, Filterable: true, FilterKind: descriptor.FilterMultiselect},
		{ID: "notes", Label: "Notes"},
	}
}

func TestToggleSortCycle(t *testing.T) {
	c := New(testColumns(), &fakeSource{})

	c.ToggleSort("name")
	s := c.Sort()
	if s == nil || s.Field != "name" || s.Desc {
		t.Fatalf("after first toggle: got %+v, want name asc", s)
	}

	c.ToggleSort("name")
	s = c.Sort()
	if s == nil || s.Field != "name" || !s.Desc {
		t.Fatalf("after second toggle: got %+v, want name desc", s)
	}

	c.ToggleSort("name")
	if s = c.Sort(); s != nil {
		t.Fatalf("after third toggle: got %+v, want unsorted", s)
	}
}

func TestToggleSortSwitchesColumn(t *testing.T) {
	c := New(testColumns(), &fakeSource{})

	c.ToggleSort("name")
	c.ToggleSort("status")
	s := c.Sort()
	if s == nil || s.Field != "status" || s.Desc {
		t.Fatalf("got %+v, want status asc", s)
	}
}

func TestToggleSortIgnoresUnsortable(t *testing.T) {
	c := New(testColumns(), &fakeSource{})

	c.ToggleSort("notes")
	if s := c.Sort(); s != nil {
		t.Fatalf("unsortable column produced sort %+v", s)
	}
	c.ToggleSort("missing")
	if s := c.Sort(); s != nil {
		t.Fatalf("unknown column produced sort %+v", s)
	}
}

func TestSetPageSizeResetsPageIndex(t *testing.T) {
	c := New(testColumns(), &fakeSource{})
	c.SetPageIndex(5)

	c.SetPageSize(50)
	if got := c.PageIndex(); got != 0 {
		t.Fatalf("page index = %d, want 0", got)
	}
	if got := c.PageSize(); got != 50 {
		t.Fatalf("page size = %d, want 50", got)
	}
}

func TestFilterChangeResetsPageIndex(t *testing.T) {
	c := New(testColumns(), &fakeSource{})

	c.SetPageIndex(3)
	c.SetFilter("name", "pump")
	if got := c.PageIndex(); got != 0 {
		t.Fatalf("after column filter: page index = %d, want 0", got)
	}

	c.SetPageIndex(3)
	c.SetSearch("valve")
	if got := c.PageIndex(); got != 0 {
		t.Fatalf("after search: page index = %d, want 0", got)
	}

	// Setting the same search again is a no-op and keeps the page.
	c.SetPageIndex(2)
	c.SetSearch("valve")
	if got := c.PageIndex(); got != 2 {
		t.Fatalf("after unchanged search: page index = %d, want 2", got)
	}
}

func TestQueryCompilesState(t *testing.T) {
	c := New(testColumns(), &fakeSource{}, WithPageSize(25))
	c.SetFilter("status", "open,closed")
	c.SetSearch("pump")
	c.ToggleSort("name")
	c.ToggleSort("name")
	c.SetPageIndex(2)

	opts := c.Query()
	if opts.Page != 3 || opts.PageSize != 25 {
		t.Fatalf("page/size = %d/%d, want 3/25", opts.Page, opts.PageSize)
	}
	if opts.Search != "pump" {
		t.Fatalf("search = %q", opts.Search)
	}
	if opts.Sort == nil || opts.Sort.String() != "-name" {
		t.Fatalf("sort = %+v, want -name", opts.Sort)
	}
	clause, ok := opts.Filter["status"]
	if !ok {
		t.Fatal("status filter missing")
	}
	vals, ok := clause[query.OpIn].([]string)
	if !ok || len(vals) != 2 {
		t.Fatalf("status clause = %+v, want $in with 2 values", clause)
	}
	if errs := c.FilterErrors(); len(errs) != 0 {
		t.Fatalf("unexpected filter errors: %+v", errs)
	}
}

func TestQueryWithholdsInvalidFilter(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{
		{ID: "qty", Label: "Qty", Filterable: true, FilterKind: descriptor.FilterNumberRange},
	}
	c := New(cols, &fakeSource{})
	c.SetFilter("qty", "9,1")

	opts := c.Query()
	if len(opts.Filter) != 0 {
		t.Fatalf("invalid range leaked into filter: %+v", opts.Filter)
	}
	errs := c.FilterErrors()
	if len(errs) != 1 || errs[0].Field != "qty" {
		t.Fatalf("filter errors = %+v, want one for qty", errs)
	}
}

func TestRefreshAppliesRowsAndClearsSelection(t *testing.T) {
	src := &fakeSource{
		rows: []Row{{"id": "iss-1"}, {"id": "iss-2"}},
		meta: query.NewPageMeta(1, 20, 2),
	}
	c := New(testColumns(), src)
	c.Select("iss-old")

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(c.Rows()); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	if got := c.Meta().Total; got != 2 {
		t.Fatalf("total = %d, want 2", got)
	}
	if sel := c.Selected(); len(sel) != 0 {
		t.Fatalf("selection survived reload: %v", sel)
	}
}

func TestRefreshResyncsPageIndex(t *testing.T) {
	src := &fakeSource{meta: query.NewPageMeta(9, 20, 45)} // 3 pages
	c := New(testColumns(), src)
	c.SetPageIndex(8)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.PageIndex(); got != 2 {
		t.Fatalf("page index = %d, want 2 (last page)", got)
	}
}

func TestRefreshError(t *testing.T) {
	wantErr := errors.New("boom")
	c := New(testColumns(), &fakeSource{err: wantErr})
	if err := c.Refresh(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestRefreshDiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	slow := &fakeSource{
		rows:    []Row{{"id": "stale"}},
		meta:    query.NewPageMeta(1, 20, 1),
		release: release,
	}
	c := New(testColumns(), slow)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	// Wait for the slow fetch to be in flight.
	for slow.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	// A newer fetch completes first.
	slow.mu.Lock()
	slow.release = nil
	slow.rows = []Row{{"id": "fresh-1"}, {"id": "fresh-2"}}
	slow.meta = query.NewPageMeta(1, 20, 2)
	slow.mu.Unlock()
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Let the first fetch resolve; its rows must not overwrite the newer ones.
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	rows := c.Rows()
	if len(rows) != 2 || rows[0]["id"] != "fresh-1" {
		t.Fatalf("stale response overwrote fresh rows: %+v", rows)
	}
}

func TestSelection(t *testing.T) {
	c := New(testColumns(), &fakeSource{})
	c.Select("b")
	c.Select("a")
	c.Select("a")
	c.Deselect("missing")

	got := c.Selected()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("selected = %v, want [a b]", got)
	}

	c.Deselect("a")
	if got = c.Selected(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("selected = %v, want [b]", got)
	}

	c.ClearSelection()
	if got = c.Selected(); len(got) != 0 {
		t.Fatalf("selected = %v, want empty", got)
	}
}

func TestRowID(t *testing.T) {
	c := New(testColumns(), &fakeSource{}, WithIDField("sku"))
	if got := c.RowID(Row{"sku": "prd-9"}); got != "prd-9" {
		t.Fatalf("RowID = %q", got)
	}
	if got := c.RowID(Row{"id": "prd-9"}); got != "" {
		t.Fatalf("RowID = %q, want empty for missing field", got)
	}
}
