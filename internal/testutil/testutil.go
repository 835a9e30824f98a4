// Package testutil provides shared helpers for building rows, shapes and
// sources in package tests.
package testutil

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/querylabs/thetajoin/internal/rel"
)

// Row builds a rel.Row from values. nil elements are NULL.
func Row(values ...any) rel.Row {
	return rel.Row(values)
}

// Rows builds a row slice for SliceSource inputs.
func Rows(rows ...rel.Row) []rel.Row {
	return rows
}

// Source wraps rows in a fresh pull source.
func Source(rows ...rel.Row) rel.Source {
	return rel.NewSliceSource(rows)
}

// Int64String is the common two-column (int64, string) test shape.
func Int64String() rel.Shape {
	return rel.Shape{arrow.PrimitiveTypes.Int64, arrow.BinaryTypes.String}
}
