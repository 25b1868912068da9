package query

import (
	"net/url"
	"reflect"
	"testing"
)

func TestFilterSet_Set(t *testing.T) {
	s := FilterSet{}
	s.Set("status", "Open")
	if s["status"] != "Open" {
		t.Errorf("Set did not store value: %v", s)
	}

	// Last write wins.
	s.Set("status", "Closed")
	if s["status"] != "Closed" {
		t.Errorf("Set is not last-write-wins: %v", s)
	}

	// Blank removes the entry.
	s.Set("status", "  ")
	if _, ok := s["status"]; ok {
		t.Errorf("blank value should remove the entry: %v", s)
	}
}

func TestFilter_EncodeDecode_RoundTrip(t *testing.T) {
	f := Filter{
		"status":  Clause{OpIn: []string{"open", "in_repair"}},
		"serial":  Clause{OpContainsI: "SN-"},
		"price":   Clause{OpBetween: []float64{100, 250}},
		"covered": Clause{OpEq: true},
	}

	vals := url.Values{}
	f.Encode(vals)

	got, err := DecodeFilter(vals)
	if err != nil {
		t.Fatalf("DecodeFilter error: %v", err)
	}

	// Decoded values are strings; compare field/operator structure and
	// string forms.
	if len(got) != len(f) {
		t.Fatalf("decoded %d fields, want %d: %v", len(got), len(f), got)
	}
	if !reflect.DeepEqual(got["status"][OpIn], []string{"open", "in_repair"}) {
		t.Errorf("status = %v", got["status"])
	}
	if got["serial"][OpContainsI] != "SN-" {
		t.Errorf("serial = %v", got["serial"])
	}
	if !reflect.DeepEqual(got["price"][OpBetween], []string{"100", "250"}) {
		t.Errorf("price = %v", got["price"])
	}
	if got["covered"][OpEq] != "true" {
		t.Errorf("covered = %v", got["covered"])
	}
}

func TestDecodeFilter_EmptyAndUnrelatedKeys(t *testing.T) {
	vals := url.Values{}
	f, err := DecodeFilter(vals)
	if err != nil {
		t.Fatalf("DecodeFilter error: %v", err)
	}
	if len(f) != 0 {
		t.Errorf("DecodeFilter(∅) = %v, want empty", f)
	}

	vals.Set("sort", "-price")
	vals.Set("pagination[page]", "3")
	f, err = DecodeFilter(vals)
	if err != nil {
		t.Fatalf("DecodeFilter error: %v", err)
	}
	if len(f) != 0 {
		t.Errorf("unrelated keys decoded as filters: %v", f)
	}
}

func TestDecodeFilter_UnknownOperator(t *testing.T) {
	vals := url.Values{}
	vals.Set("filters[name][$regex]", "x")
	if _, err := DecodeFilter(vals); err == nil {
		t.Error("expected error for unknown operator")
	}
}

func TestParseFilterKey(t *testing.T) {
	field, op, ok := parseFilterKey("filters[status][$in]")
	if !ok || field != "status" || op != OpIn {
		t.Errorf("parseFilterKey = (%q, %q, %v)", field, op, ok)
	}

	for _, bad := range []string{"filters[status]", "filter[a][$eq]", "filters[][$eq]", "filters[a][]", "search"} {
		if _, _, ok := parseFilterKey(bad); ok {
			t.Errorf("parseFilterKey(%q) accepted, want rejected", bad)
		}
	}
}

func TestFilter_Key_Deterministic(t *testing.T) {
	a := Filter{
		"b": Clause{OpEq: "2"},
		"a": Clause{OpEq: "1"},
	}
	b := Filter{
		"a": Clause{OpEq: "1"},
		"b": Clause{OpEq: "2"},
	}
	if a.Key() != b.Key() {
		t.Errorf("Key() differs for equal filters: %q vs %q", a.Key(), b.Key())
	}
}
