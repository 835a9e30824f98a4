//nolint:testpackage // requires internal access to unexported types and functions
package rel

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceSourceDrains(t *testing.T) {
	src := NewSliceSource([]Row{{int64(1)}, {int64(2)}})

	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, Row{int64(1)}, row)

	row, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, Row{int64(2)}, row)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
	// EOF is stable
	_, err = src.Next()
	assert.Equal(t, io.EOF, err)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}

func TestCollect(t *testing.T) {
	rows, err := Collect(NewSliceSource([]Row{{int64(1)}, {int64(2)}, {int64(3)}}))
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = Collect(NewSliceSource(nil))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCombineAndNullRow(t *testing.T) {
	left := Row{int64(1), "a"}
	right := NullRow(2)

	combined := Combine(left, right)
	assert.Equal(t, Row{int64(1), "a", nil, nil}, combined)

	// The output row is fresh; mutating it must not touch the inputs.
	combined[0] = int64(99)
	assert.Equal(t, int64(1), left[0])
}
