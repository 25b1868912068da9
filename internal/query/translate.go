package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
)

// FieldError is a single translation failure on a named filter field.
// A field with an error contributes nothing to the produced Filter; the
// entry is withheld until the input is corrected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// dateOnly is the accepted layout for date-range bounds; date-time ranges
// use RFC 3339.
const dateOnly = "2006-01-02"

// Translate converts a FilterSet into the normalized Filter structure using
// the columns' filter kinds. Blank values are omitted entirely. Invalid
// values (bad numbers, unparseable dates, inverted ranges) are reported as
// field errors and their fields withheld; bounds are never silently swapped.
func Translate(cols []descriptor.ColumnDescriptor, set FilterSet) (Filter, []FieldError) {
	byID := make(map[string]*descriptor.ColumnDescriptor, len(cols))
	for i := range cols {
		byID[cols[i].ID] = &cols[i]
	}

	out := Filter{}
	var errs []FieldError
	fail := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	for field, raw := range set {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		col, ok := byID[field]
		if !ok {
			fail(field, "unknown column")
			continue
		}
		if !col.Filterable {
			fail(field, "column is not filterable")
			continue
		}

		switch col.FilterKind {
		case descriptor.FilterMultiselect:
			var vals []string
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					vals = append(vals, v)
				}
			}
			if len(vals) == 0 {
				continue
			}
			out[field] = Clause{OpIn: vals}

		case descriptor.FilterNumberRange:
			clause, err := numberRangeClause(raw)
			if err != nil {
				fail(field, err.Error())
				continue
			}
			if clause != nil {
				out[field] = clause
			}

		case descriptor.FilterDateRange:
			clause, err := dateRangeClause(raw, dateOnly)
			if err != nil {
				fail(field, err.Error())
				continue
			}
			if clause != nil {
				out[field] = clause
			}

		case descriptor.FilterDateTimeRange:
			clause, err := dateRangeClause(raw, time.RFC3339)
			if err != nil {
				fail(field, err.Error())
				continue
			}
			if clause != nil {
				out[field] = clause
			}

		case descriptor.FilterBoolean:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				fail(field, "must be true or false")
				continue
			}
			out[field] = Clause{OpEq: b}

		case descriptor.FilterContains:
			out[field] = Clause{OpContainsI: raw}
		case descriptor.FilterStartsWith:
			out[field] = Clause{OpStartsWithI: raw}
		case descriptor.FilterEndsWith:
			out[field] = Clause{OpEndsWithI: raw}

		case "", descriptor.FilterText:
			op, err := textOperator(col.FilterOperator)
			if err != nil {
				fail(field, err.Error())
				continue
			}
			out[field] = Clause{op: raw}

		default:
			fail(field, fmt.Sprintf("unknown filter kind %q", col.FilterKind))
		}
	}

	return out, errs
}

// textOperator resolves a text column's configured operator; the default
// is case-insensitive contains.
func textOperator(configured string) (Operator, error) {
	switch configured {
	case "", "contains":
		return OpContainsI, nil
	case "startsWith":
		return OpStartsWithI, nil
	case "endsWith":
		return OpEndsWithI, nil
	case "eq":
		return OpEq, nil
	}
	return "", fmt.Errorf("unknown filter operator %q", configured)
}

// numberRangeClause parses "min,max" into a $between clause, or a one-sided
// $gte / $lte when only one bound is present.
func numberRangeClause(raw string) (Clause, error) {
	minRaw, maxRaw, err := splitRange(raw)
	if err != nil {
		return nil, err
	}

	var minVal, maxVal float64
	hasMin, hasMax := minRaw != "", maxRaw != ""
	if hasMin {
		if minVal, err = strconv.ParseFloat(minRaw, 64); err != nil {
			return nil, fmt.Errorf("invalid number %q", minRaw)
		}
	}
	if hasMax {
		if maxVal, err = strconv.ParseFloat(maxRaw, 64); err != nil {
			return nil, fmt.Errorf("invalid number %q", maxRaw)
		}
	}

	switch {
	case hasMin && hasMax:
		if minVal > maxVal {
			return nil, fmt.Errorf("minimum %s exceeds maximum %s", minRaw, maxRaw)
		}
		return Clause{OpBetween: []float64{minVal, maxVal}}, nil
	case hasMin:
		return Clause{OpGte: minVal}, nil
	case hasMax:
		return Clause{OpLte: maxVal}, nil
	}
	return nil, nil
}

// dateRangeClause parses "from,to" in the given layout, enforcing from ≤ to.
// Bound values are kept as their original strings in the clause.
func dateRangeClause(raw, layout string) (Clause, error) {
	fromRaw, toRaw, err := splitRange(raw)
	if err != nil {
		return nil, err
	}

	var from, to time.Time
	hasFrom, hasTo := fromRaw != "", toRaw != ""
	if hasFrom {
		if from, err = time.Parse(layout, fromRaw); err != nil {
			return nil, fmt.Errorf("invalid date %q", fromRaw)
		}
	}
	if hasTo {
		if to, err = time.Parse(layout, toRaw); err != nil {
			return nil, fmt.Errorf("invalid date %q", toRaw)
		}
	}

	switch {
	case hasFrom && hasTo:
		if from.After(to) {
			return nil, fmt.Errorf("start %s is after end %s", fromRaw, toRaw)
		}
		return Clause{OpBetween: []string{fromRaw, toRaw}}, nil
	case hasFrom:
		return Clause{OpGte: fromRaw}, nil
	case hasTo:
		return Clause{OpLte: toRaw}, nil
	}
	return nil, nil
}

// splitRange splits a "low,high" pair, trimming whitespace. A missing comma
// is treated as a lone lower bound.
func splitRange(raw string) (string, string, error) {
	parts := strings.SplitN(raw, ",", 3)
	switch len(parts) {
	case 1:
		return strings.TrimSpace(parts[0]), "", nil
	case 2:
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
	}
	return "", "", fmt.Errorf("expected a single \"low,high\" pair")
}
