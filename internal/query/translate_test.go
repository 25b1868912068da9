package query

import (
	"reflect"
	"testing"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
)

func col(id string, kind descriptor.FilterKind) descriptor.ColumnDescriptor {
	return descriptor.ColumnDescriptor{ID: id, Filterable: true, FilterKind: kind}
}

func TestTranslate_EmptySetProducesEmptyFilter(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{col("name", descriptor.FilterText)}

	for _, set := range []FilterSet{nil, {}, {"name": ""}, {"name": "   "}} {
		f, errs := Translate(cols, set)
		if len(errs) != 0 {
			t.Fatalf("Translate(%v) errors: %v", set, errs)
		}
		if len(f) != 0 {
			t.Errorf("Translate(%v) = %v, want empty filter", set, f)
		}
	}
}

func TestTranslate_Multiselect(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{{
		ID: "status", Filterable: true, FilterKind: descriptor.FilterMultiselect,
		FilterOptions: []descriptor.Option{{Value: "Open"}, {Value: "Closed"}},
	}}

	f, errs := Translate(cols, FilterSet{"status": "Open,Closed"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := Filter{"status": Clause{OpIn: []string{"Open", "Closed"}}}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("Translate() = %v, want %v", f, want)
	}
}

func TestTranslate_NumberRange(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{col("price", descriptor.FilterNumberRange)}

	// Min only: $gte, never $between.
	f, errs := Translate(cols, FilterSet{"price": "100,"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := Filter{"price": Clause{OpGte: 100.0}}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("min-only = %v, want %v", f, want)
	}

	// Max only: $lte.
	f, _ = Translate(cols, FilterSet{"price": ",250"})
	want = Filter{"price": Clause{OpLte: 250.0}}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("max-only = %v, want %v", f, want)
	}

	// Both bounds: $between.
	f, _ = Translate(cols, FilterSet{"price": "100,250"})
	want = Filter{"price": Clause{OpBetween: []float64{100, 250}}}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("both bounds = %v, want %v", f, want)
	}

	// Inverted bounds: withheld + reported.
	f, errs = Translate(cols, FilterSet{"price": "250,100"})
	if len(f) != 0 {
		t.Errorf("inverted range emitted a filter: %v", f)
	}
	if len(errs) != 1 || errs[0].Field != "price" {
		t.Errorf("inverted range errors = %v, want one error on price", errs)
	}

	// Unparseable number.
	_, errs = Translate(cols, FilterSet{"price": "abc,"})
	if len(errs) != 1 {
		t.Errorf("bad number errors = %v, want one", errs)
	}
}

func TestTranslate_DateRange(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{col("created", descriptor.FilterDateRange)}

	f, errs := Translate(cols, FilterSet{"created": "2026-01-01,2026-06-30"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := Filter{"created": Clause{OpBetween: []string{"2026-01-01", "2026-06-30"}}}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("Translate() = %v, want %v", f, want)
	}

	// from > to is withheld and reported for all orderings of completion.
	for _, raw := range []string{"2026-06-30,2026-01-01", "2026-12-31,2026-12-30"} {
		f, errs = Translate(cols, FilterSet{"created": raw})
		if len(f) != 0 {
			t.Errorf("Translate(%q) emitted %v, want nothing", raw, f)
		}
		if len(errs) != 1 || errs[0].Field != "created" {
			t.Errorf("Translate(%q) errors = %v, want one on created", raw, errs)
		}
	}

	// Equal bounds are fine.
	f, errs = Translate(cols, FilterSet{"created": "2026-03-01,2026-03-01"})
	if len(errs) != 0 || len(f) != 1 {
		t.Errorf("equal bounds: filter=%v errs=%v", f, errs)
	}

	// One-sided bounds.
	f, _ = Translate(cols, FilterSet{"created": "2026-01-01,"})
	if !reflect.DeepEqual(f, Filter{"created": Clause{OpGte: "2026-01-01"}}) {
		t.Errorf("from-only = %v", f)
	}
}

func TestTranslate_Boolean(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{col("warranty_covered", descriptor.FilterBoolean)}

	f, errs := Translate(cols, FilterSet{"warranty_covered": "true"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(f, Filter{"warranty_covered": Clause{OpEq: true}}) {
		t.Errorf("Translate(true) = %v", f)
	}

	f, _ = Translate(cols, FilterSet{"warranty_covered": "false"})
	if !reflect.DeepEqual(f, Filter{"warranty_covered": Clause{OpEq: false}}) {
		t.Errorf("Translate(false) = %v", f)
	}

	_, errs = Translate(cols, FilterSet{"warranty_covered": "maybe"})
	if len(errs) != 1 {
		t.Errorf("Translate(maybe) errors = %v, want one", errs)
	}
}

func TestTranslate_TextOperators(t *testing.T) {
	cases := []struct {
		kind descriptor.FilterKind
		op   Operator
	}{
		{descriptor.FilterContains, OpContainsI},
		{descriptor.FilterStartsWith, OpStartsWithI},
		{descriptor.FilterEndsWith, OpEndsWithI},
		{descriptor.FilterText, OpContainsI},
		{"", OpContainsI},
	}
	for _, tc := range cases {
		cols := []descriptor.ColumnDescriptor{col("serial", tc.kind)}
		f, errs := Translate(cols, FilterSet{"serial": "SN-42"})
		if len(errs) != 0 {
			t.Fatalf("kind %q: unexpected errors %v", tc.kind, errs)
		}
		want := Filter{"serial": Clause{tc.op: "SN-42"}}
		if !reflect.DeepEqual(f, want) {
			t.Errorf("kind %q: Translate() = %v, want %v", tc.kind, f, want)
		}
	}
}

func TestTranslate_ConfiguredTextOperator(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{{
		ID: "serial", Filterable: true, FilterKind: descriptor.FilterText,
		FilterOperator: "startsWith",
	}}
	f, errs := Translate(cols, FilterSet{"serial": "SN"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(f, Filter{"serial": Clause{OpStartsWithI: "SN"}}) {
		t.Errorf("Translate() = %v", f)
	}

	cols[0].FilterOperator = "regex"
	_, errs = Translate(cols, FilterSet{"serial": "SN"})
	if len(errs) != 1 {
		t.Errorf("unknown operator errors = %v, want one", errs)
	}
}

func TestTranslate_UnknownColumnAndKind(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{col("name", descriptor.FilterKind("fuzzy"))}

	_, errs := Translate(cols, FilterSet{"bogus": "x"})
	if len(errs) != 1 || errs[0].Field != "bogus" {
		t.Errorf("unknown column errors = %v", errs)
	}

	// Unknown kinds are rejected, not defaulted to contains.
	f, errs := Translate(cols, FilterSet{"name": "x"})
	if len(f) != 0 {
		t.Errorf("unknown kind emitted %v", f)
	}
	if len(errs) != 1 {
		t.Errorf("unknown kind errors = %v, want one", errs)
	}
}

func TestTranslate_NotFilterable(t *testing.T) {
	cols := []descriptor.ColumnDescriptor{{ID: "id", FilterKind: descriptor.FilterText}}
	f, errs := Translate(cols, FilterSet{"id": "x"})
	if len(f) != 0 || len(errs) != 1 {
		t.Errorf("non-filterable column: filter=%v errs=%v", f, errs)
	}
}
