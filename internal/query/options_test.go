package query

import (
	"net/url"
	"testing"
)

func TestParseSort(t *testing.T) {
	if s := ParseSort(""); s != nil {
		t.Errorf("ParseSort(\"\") = %v, want nil", s)
	}
	if s := ParseSort("-"); s != nil {
		t.Errorf("ParseSort(\"-\") = %v, want nil", s)
	}

	s := ParseSort("created_at")
	if s == nil || s.Field != "created_at" || s.Desc {
		t.Errorf("ParseSort(created_at) = %+v", s)
	}

	s = ParseSort("-priority")
	if s == nil || s.Field != "priority" || !s.Desc {
		t.Errorf("ParseSort(-priority) = %+v", s)
	}

	if got := (SortSpec{Field: "priority", Desc: true}).String(); got != "-priority" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewPageMeta(t *testing.T) {
	m := NewPageMeta(2, 20, 45)
	if m.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", m.PageCount)
	}
	if m.Total != 45 || m.Page != 2 || m.PageSize != 20 {
		t.Errorf("meta = %+v", m)
	}

	m = NewPageMeta(1, 20, 0)
	if m.PageCount != 0 {
		t.Errorf("PageCount for empty set = %d, want 0", m.PageCount)
	}

	m = NewPageMeta(1, 20, 20)
	if m.PageCount != 1 {
		t.Errorf("PageCount for exact page = %d, want 1", m.PageCount)
	}
}

func TestDecodeOptions_Defaults(t *testing.T) {
	opts, err := DecodeOptions(url.Values{})
	if err != nil {
		t.Fatalf("DecodeOptions error: %v", err)
	}
	if opts.Page != 1 || opts.PageSize != DefaultPageSize {
		t.Errorf("defaults = page %d size %d", opts.Page, opts.PageSize)
	}
	if opts.Sort != nil || opts.Search != "" || len(opts.Filter) != 0 {
		t.Errorf("defaults carried state: %+v", opts)
	}
}

func TestDecodeOptions_Values(t *testing.T) {
	vals := url.Values{}
	vals.Set("pagination[page]", "3")
	vals.Set("pagination[pageSize]", "50")
	vals.Set("sort", "-created_at")
	vals.Set("search", "pump")
	vals.Set("filters[status][$eq]", "open")

	opts, err := DecodeOptions(vals)
	if err != nil {
		t.Fatalf("DecodeOptions error: %v", err)
	}
	if opts.Page != 3 || opts.PageSize != 50 {
		t.Errorf("pagination = page %d size %d", opts.Page, opts.PageSize)
	}
	if opts.Sort == nil || opts.Sort.Field != "created_at" || !opts.Sort.Desc {
		t.Errorf("sort = %+v", opts.Sort)
	}
	if opts.Search != "pump" {
		t.Errorf("search = %q", opts.Search)
	}
	if opts.Filter["status"][OpEq] != "open" {
		t.Errorf("filter = %v", opts.Filter)
	}
	if opts.Offset() != 100 {
		t.Errorf("Offset() = %d, want 100", opts.Offset())
	}
}

func TestDecodeOptions_Invalid(t *testing.T) {
	for _, kv := range []struct{ k, v string }{
		{"pagination[page]", "0"},
		{"pagination[page]", "x"},
		{"pagination[pageSize]", "-1"},
	} {
		vals := url.Values{}
		vals.Set(kv.k, kv.v)
		if _, err := DecodeOptions(vals); err == nil {
			t.Errorf("DecodeOptions(%s=%s) succeeded, want error", kv.k, kv.v)
		}
	}
}

func TestDecodeOptions_PageSizeCap(t *testing.T) {
	vals := url.Values{}
	vals.Set("pagination[pageSize]", "10000")
	opts, err := DecodeOptions(vals)
	if err != nil {
		t.Fatalf("DecodeOptions error: %v", err)
	}
	if opts.PageSize != MaxPageSize {
		t.Errorf("PageSize = %d, want cap %d", opts.PageSize, MaxPageSize)
	}
}

func TestOptions_Encode_RoundTrip(t *testing.T) {
	opts := Options{
		Filter:   Filter{"status": Clause{OpIn: []string{"open", "closed"}}},
		Search:   "valve",
		Sort:     &SortSpec{Field: "priority", Desc: true},
		Page:     2,
		PageSize: 25,
	}

	decoded, err := DecodeOptions(opts.Encode())
	if err != nil {
		t.Fatalf("DecodeOptions error: %v", err)
	}
	if decoded.Page != 2 || decoded.PageSize != 25 || decoded.Search != "valve" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Sort == nil || decoded.Sort.String() != "-priority" {
		t.Errorf("decoded sort = %+v", decoded.Sort)
	}
	if len(decoded.Filter) != 1 {
		t.Errorf("decoded filter = %v", decoded.Filter)
	}
}
