// Package rel defines the relational primitives the join core operates on:
// typed rows, row shapes, pull-based row sources, and the key type
// unification used to compare equality keys across heterogeneous columns.
//
// Rows are produced by external collaborators and treated as immutable;
// this package only reads them and builds new composite rows.
package rel

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Row is an ordered, fixed-arity sequence of typed values. A nil element
// is SQL NULL. Supported value types are bool, int8..int64, float32,
// float64, string and decimal128.Num, matching the Shape vocabulary.
type Row []any

// Shape describes the column types of a row, in column order.
type Shape []arrow.DataType

// Width returns the number of columns.
func (s Shape) Width() int { return len(s) }

// Concat returns the shape of a combined left+right output row.
func (s Shape) Concat(other Shape) Shape {
	out := make(Shape, 0, len(s)+len(other))
	out = append(out, s...)
	out = append(out, other...)
	return out
}

// String renders the shape as a comma-separated type list.
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dt := range s {
		parts[i] = dt.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// KeyPair names one equality key: the left column ordinal and the right
// column ordinal (each relative to its own shape). Pair order matters for
// composite-key comparison.
type KeyPair struct {
	Left  int
	Right int
}

// NullRow returns a row of the given width with every field NULL. Used to
// pad the unmatched side of outer joins.
func NullRow(width int) Row {
	return make(Row, width)
}

// Combine concatenates left and right fields into a fresh output row.
// Neither input is aliased; the result is owned by the caller.
func Combine(left, right Row) Row {
	out := make(Row, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}
