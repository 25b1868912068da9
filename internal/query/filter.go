package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FilterSet is the raw per-column filter state as entered in the UI:
// field id → unparsed value. Writes are last-write-wins per field; an empty
// value removes the entry (absence means "no constraint", never
// "match-empty").
type FilterSet map[string]string

// Set records a raw filter value, deleting the entry when the value is blank.
func (s FilterSet) Set(fieldID, value string) {
	if strings.TrimSpace(value) == "" {
		delete(s, fieldID)
		return
	}
	s[fieldID] = value
}

// Clone returns a copy of the set.
func (s FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Clause maps operators to their values for a single field.
type Clause map[Operator]any

// Filter is the normalized, server-consumable filter structure:
// field id → operator → value.
type Filter map[string]Clause

// Encode writes the filter into vals using the `filters[field][$op]` wire
// format. Multi-valued operators ($in, $between) emit one key per element.
func (f Filter) Encode(vals url.Values) {
	for field, clause := range f {
		for op, val := range clause {
			key := fmt.Sprintf("filters[%s][%s]", field, op)
			switch v := val.(type) {
			case []string:
				for _, elem := range v {
					vals.Add(key, elem)
				}
			case []float64:
				for _, elem := range v {
					vals.Add(key, formatNumber(elem))
				}
			case float64:
				vals.Add(key, formatNumber(v))
			case bool:
				vals.Add(key, strconv.FormatBool(v))
			default:
				vals.Add(key, fmt.Sprint(v))
			}
		}
	}
}

// Key returns a canonical string form of the filter, suitable for use as a
// cache key. Fields and operators are emitted in sorted order.
func (f Filter) Key() string {
	vals := url.Values{}
	f.Encode(vals)
	return vals.Encode() // Encode sorts keys.
}

// DecodeFilter parses `filters[field][$op]` keys from URL query values.
// Unknown operators are rejected; values of multi-valued operators are
// gathered in order of appearance.
func DecodeFilter(vals url.Values) (Filter, error) {
	f := Filter{}
	for key, list := range vals {
		field, op, ok := parseFilterKey(key)
		if !ok {
			continue
		}
		if !op.IsValid() {
			return nil, fmt.Errorf("unknown filter operator %q for field %q", op, field)
		}
		if len(list) == 0 {
			continue
		}
		clause := f[field]
		if clause == nil {
			clause = Clause{}
			f[field] = clause
		}
		if op.multiValued() {
			clause[op] = append([]string(nil), list...)
		} else {
			clause[op] = list[0]
		}
	}
	if len(f) == 0 {
		return Filter{}, nil
	}
	return f, nil
}

// parseFilterKey splits "filters[status][$in]" into ("status", "$in", true).
func parseFilterKey(key string) (string, Operator, bool) {
	const prefix = "filters["
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(key, prefix), "]")
	i := strings.Index(rest, "][")
	if i < 0 {
		return "", "", false
	}
	field, op := rest[:i], rest[i+2:]
	if field == "" || op == "" {
		return "", "", false
	}
	return field, Operator(op), true
}

// fieldIDs returns the filter's field ids in sorted order, for deterministic
// SQL generation and cache keys.
func (f Filter) fieldIDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// formatNumber renders a float without a trailing ".0" for whole values.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
