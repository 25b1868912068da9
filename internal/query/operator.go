// Package query implements the grid query protocol: a normalized filter
// structure with a fixed operator vocabulary, single-column sort, and
// page-based pagination, together with the translator that builds filters
// from raw column-filter input and the encoders for the URL wire format and
// for SQL WHERE clauses.
package query

// Operator is a filter comparison operator. The vocabulary is closed; the
// "i" suffix marks case-insensitive string matching.
type Operator string

const (
	OpEq          Operator = "$eq"
	OpNe          Operator = "$ne"
	OpContainsI   Operator = "$containsi"
	OpStartsWithI Operator = "$startsWithi"
	OpEndsWithI   Operator = "$endsWithi"
	OpIn          Operator = "$in"
	OpBetween     Operator = "$between"
	OpGt          Operator = "$gt"
	OpGte         Operator = "$gte"
	OpLt          Operator = "$lt"
	OpLte         Operator = "$lte"
	OpNull        Operator = "$null"
)

// String returns the wire representation of the operator.
func (o Operator) String() string {
	return string(o)
}

// IsValid checks whether the operator is a known value.
func (o Operator) IsValid() bool {
	switch o {
	case OpEq, OpNe, OpContainsI, OpStartsWithI, OpEndsWithI, OpIn,
		OpBetween, OpGt, OpGte, OpLt, OpLte, OpNull:
		return true
	}
	return false
}

// multiValued reports whether the operator carries a list value on the wire.
func (o Operator) multiValued() bool {
	return o == OpIn || o == OpBetween
}
