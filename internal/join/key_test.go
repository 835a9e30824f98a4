//nolint:testpackage // requires internal access to unexported types and functions
package join

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylabs/thetajoin/internal/plan"
	"github.com/querylabs/thetajoin/internal/rel"
	"github.com/querylabs/thetajoin/internal/testutil"
)

func TestHashKeySignedZerosCollide(t *testing.T) {
	negZero := math.Copysign(0, -1)

	a := []any{negZero}
	b := []any{0.0}
	require.True(t, keysEqual(a, b))

	ha, err := hashKey(a)
	require.NoError(t, err)
	hb, err := hashKey(b)
	require.NoError(t, err)
	assert.Equal(t, hb, ha, "equal keys must select the same bucket")

	// float32 keys normalize to float64 before hashing, same rule applies
	hc, err := hashKey([]any{float64(float32(math.Copysign(0, -1)))})
	require.NoError(t, err)
	assert.Equal(t, hb, hc)
}

func TestHashKeyDistinctValuesDiffer(t *testing.T) {
	ha, err := hashKey([]any{1.0})
	require.NoError(t, err)
	hb, err := hashKey([]any{2.0})
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestInnerJoinSignedZeroFloatKeys(t *testing.T) {
	shape := rel.Shape{arrow.PrimitiveTypes.Float64, arrow.BinaryTypes.String}
	spec, err := plan.NewSpecFromKeys(plan.InnerJoin, shape, shape,
		[]rel.KeyPair{{Left: 0, Right: 0}}, nil)
	require.NoError(t, err)

	negZero := math.Copysign(0, -1)
	left := testutil.Rows(testutil.Row(negZero, "l"))
	right := testutil.Rows(testutil.Row(0.0, "r"))

	for _, buildRight := range []bool{false, true} {
		got := runJoin(t, spec, left, right, Options{BuildRight: buildRight})
		assert.Equal(t, testutil.Rows(testutil.Row(negZero, "l", 0.0, "r")), got,
			"buildRight=%v", buildRight)
	}
}

func TestNaNKeysNeverJoin(t *testing.T) {
	shape := rel.Shape{arrow.PrimitiveTypes.Float64, arrow.BinaryTypes.String}
	spec, err := plan.NewSpecFromKeys(plan.InnerJoin, shape, shape,
		[]rel.KeyPair{{Left: 0, Right: 0}}, nil)
	require.NoError(t, err)

	got := runJoin(t, spec,
		testutil.Rows(testutil.Row(math.NaN(), "l")),
		testutil.Rows(testutil.Row(math.NaN(), "r")),
		Options{})
	assert.Empty(t, got)
}
