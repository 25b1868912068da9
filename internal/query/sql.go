package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Columns maps wire field ids to SQL column expressions. It doubles as the
// allowlist: filters and sorts referencing unmapped fields are rejected, so
// user input never reaches the SQL text directly.
type Columns map[string]string

// WhereClauses appends one SQL condition per filter field to args, using
// nextArg for positional placeholders. Fields are processed in sorted order
// so generated SQL is deterministic.
func WhereClauses(f Filter, cols Columns, nextArg func() string, args *[]any) ([]string, error) {
	var clauses []string
	for _, field := range f.fieldIDs() {
		col, ok := cols[field]
		if !ok {
			return nil, fmt.Errorf("cannot filter on %q", field)
		}
		for op, val := range f[field] {
			clause, err := buildClause(col, op, val, nextArg, args)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field, err)
			}
			clauses = append(clauses, clause)
		}
	}
	return clauses, nil
}

func buildClause(col string, op Operator, val any, nextArg func() string, args *[]any) (string, error) {
	switch op {
	case OpEq:
		*args = append(*args, val)
		return col + " = " + nextArg(), nil
	case OpNe:
		*args = append(*args, val)
		return col + " <> " + nextArg(), nil
	case OpContainsI:
		*args = append(*args, val)
		return col + " ILIKE '%' || " + nextArg() + " || '%'", nil
	case OpStartsWithI:
		*args = append(*args, val)
		return col + " ILIKE " + nextArg() + " || '%'", nil
	case OpEndsWithI:
		*args = append(*args, val)
		return col + " ILIKE '%' || " + nextArg(), nil
	case OpGt, OpGte, OpLt, OpLte:
		*args = append(*args, val)
		return col + " " + compareSQL(op) + " " + nextArg(), nil
	case OpIn:
		vals, err := listValues(val)
		if err != nil {
			return "", err
		}
		placeholders := make([]string, len(vals))
		for i, v := range vals {
			placeholders[i] = nextArg()
			*args = append(*args, v)
		}
		return col + " IN (" + strings.Join(placeholders, ", ") + ")", nil
	case OpBetween:
		vals, err := listValues(val)
		if err != nil {
			return "", err
		}
		if len(vals) != 2 {
			return "", fmt.Errorf("$between expects 2 values, got %d", len(vals))
		}
		low, high := nextArg(), nextArg()
		*args = append(*args, vals[0], vals[1])
		return col + " BETWEEN " + low + " AND " + high, nil
	case OpNull:
		if isTruthy(val) {
			return col + " IS NULL", nil
		}
		return col + " IS NOT NULL", nil
	}
	return "", fmt.Errorf("unknown operator %q", op)
}

func compareSQL(op Operator) string {
	switch op {
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	}
	return "="
}

// listValues normalizes a multi-valued operand into a flat []any.
func listValues(val any) ([]any, error) {
	switch v := val.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list value, got %T", val)
}

func isTruthy(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}
