//nolint:testpackage // requires internal access to unexported types and functions
package plan

import (
	stderrors "errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/querylabs/thetajoin/internal/errors"
	"github.com/querylabs/thetajoin/internal/expr"
	"github.com/querylabs/thetajoin/internal/rel"
)

var (
	leftShape  = rel.Shape{arrow.PrimitiveTypes.Int64, arrow.BinaryTypes.String}
	rightShape = rel.Shape{arrow.PrimitiveTypes.Int32, arrow.PrimitiveTypes.Float64}
)

func TestNewSpecSplitsAndUnifies(t *testing.T) {
	cond := expr.Col(0).Eq(expr.Col(2)).And(expr.Col(3).Gt(expr.Lit(1.0)))

	spec, err := NewSpec(LeftJoin, leftShape, rightShape, cond)
	require.NoError(t, err)

	assert.Equal(t, LeftJoin, spec.Type)
	assert.Equal(t, []rel.KeyPair{{Left: 0, Right: 0}}, spec.Keys)
	require.Len(t, spec.KeyTypes, 1)
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Int64, spec.KeyTypes[0]))
	assert.Equal(t, leftShape.Concat(rightShape), spec.Output)
	require.NotNil(t, spec.Residual)
}

func TestNewSpecNotApplicable(t *testing.T) {
	_, err := NewSpec(InnerJoin, leftShape, rightShape, expr.Col(0).Lt(expr.Col(2)))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, jerrors.ErrNotApplicable))
}

func TestNewSpecIncompatibleKeyTypes(t *testing.T) {
	// string key against float64 key
	_, err := NewSpec(InnerJoin, leftShape, rightShape, expr.Col(1).Eq(expr.Col(3)))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, jerrors.ErrIncompatibleKeyTypes))
}

func TestNewSpecFromKeysRequiresKeys(t *testing.T) {
	_, err := NewSpecFromKeys(InnerJoin, leftShape, rightShape, nil, nil)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, jerrors.ErrNotApplicable))
}

func TestNewSpecFromKeysPureEquiJoin(t *testing.T) {
	spec, err := NewSpecFromKeys(InnerJoin, leftShape, rightShape,
		[]rel.KeyPair{{Left: 0, Right: 0}}, nil)
	require.NoError(t, err)

	// Absent residual compiles to the constant-true predicate.
	ok, err := spec.Residual(rel.Row{int64(1), "a"}, rel.Row{int32(1), 2.0})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewSpecRejectsInvalidJoinType(t *testing.T) {
	_, err := NewSpecFromKeys(JoinType(42), leftShape, rightShape,
		[]rel.KeyPair{{Left: 0, Right: 0}}, nil)
	require.Error(t, err)
}

func TestJoinTypeNullSides(t *testing.T) {
	assert.False(t, InnerJoin.FillsLeftWithNulls())
	assert.False(t, InnerJoin.FillsRightWithNulls())
	assert.False(t, LeftJoin.FillsLeftWithNulls())
	assert.True(t, LeftJoin.FillsRightWithNulls())
	assert.True(t, RightJoin.FillsLeftWithNulls())
	assert.False(t, RightJoin.FillsRightWithNulls())
	assert.True(t, FullOuterJoin.FillsLeftWithNulls())
	assert.True(t, FullOuterJoin.FillsRightWithNulls())
}

func TestSpecString(t *testing.T) {
	cond := expr.Col(0).Eq(expr.Col(2)).And(expr.Col(3).Gt(expr.Lit(1.0)))
	spec, err := NewSpec(FullOuterJoin, leftShape, rightShape, cond)
	require.NoError(t, err)

	s := spec.String()
	assert.Contains(t, s, "FULL")
	assert.Contains(t, s, "l0=r0")
	assert.Contains(t, s, "residual=")
}
