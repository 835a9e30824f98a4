//nolint:testpackage // requires internal access to unexported types and functions
package expr

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/querylabs/thetajoin/internal/errors"
	"github.com/querylabs/thetajoin/internal/rel"
)

func evalPred(t *testing.T, cond Expr, left, right rel.Row) (bool, error) {
	t.Helper()
	pred, err := Compile(cond, len(left))
	require.NoError(t, err)
	return pred(left, right)
}

func TestCompileNilIsTrue(t *testing.T) {
	pred, err := Compile(nil, 2)
	require.NoError(t, err)
	ok, err := pred(rel.Row{int64(1)}, rel.Row{int64(2)})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompileComparisons(t *testing.T) {
	left := rel.Row{int64(10), "mango"}
	right := rel.Row{int64(20), "apple"}

	tests := []struct {
		name string
		cond Expr
		want bool
	}{
		{"lt across sides", Col(0).Lt(Col(2)), true},
		{"gt across sides", Col(0).Gt(Col(2)), false},
		{"string compare", Col(1).Gt(Col(3)), true},
		{"literal rhs", Col(0).Ge(Lit(10)), true},
		{"mixed int float", Col(0).Lt(Lit(10.5)), true},
		{"ne", Col(0).Ne(Col(2)), true},
		{"and", Col(0).Lt(Col(2)).And(Col(1).Ne(Col(3))), true},
		{"or short circuit", Col(0).Gt(Col(2)).Or(Col(1).Gt(Col(3))), true},
		{"not", Not(Col(0).Lt(Col(2))), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalPred(t, tt.cond, left, right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileNullSemantics(t *testing.T) {
	left := rel.Row{nil, int64(1)}
	right := rel.Row{int64(5), nil}

	// NULL compared to anything is unknown, and unknown does not satisfy.
	for _, cond := range []Expr{
		Col(0).Eq(Col(2)),
		Col(0).Lt(Col(2)),
		Col(0).Eq(Lit(nil)),
		Col(0).Eq(Col(2)).And(Col(1).Lt(Lit(int64(10)))),
	} {
		ok, err := evalPred(t, cond, left, right)
		require.NoError(t, err)
		assert.False(t, ok, "cond=%v", cond)
	}

	// TRUE OR unknown is still true.
	ok, err := evalPred(t, Col(1).Eq(Lit(int64(1))).Or(Col(0).Lt(Col(2))), left, right)
	require.NoError(t, err)
	assert.True(t, ok)

	// FALSE AND unknown is still false, not an error.
	ok, err = evalPred(t, Col(1).Gt(Lit(int64(5))).And(Col(0).Lt(Col(2))), left, right)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileTypeMismatchIsPredicateError(t *testing.T) {
	ok, err := evalPred(t, Col(0).Lt(Col(1)), rel.Row{int64(1), "x"}, rel.Row{})
	assert.False(t, ok)
	require.Error(t, err)

	var je *jerrors.JoinError
	require.True(t, stderrors.As(err, &je))
	assert.Equal(t, jerrors.KindPredicateEvaluation, je.Kind)
}

func TestCompileRejectsNonBooleanResidual(t *testing.T) {
	_, err := Compile(Lit(int64(42)), 1)
	require.Error(t, err)

	_, err = Compile(Col(0), 1)
	require.Error(t, err)
}
