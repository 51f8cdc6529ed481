package fib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAscending(t *testing.T) {
	table, err := Build(144)
	require.NoError(t, err)

	want := []uint64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}
	require.Equal(t, len(want), table.Count())
	for i, v := range want {
		assert.Equal(t, v, table.Value(i))
	}
	assert.Equal(t, uint64(144), table.Capacity())
}

func TestBuildTruncatesToCapacity(t *testing.T) {
	table, err := Build(100)
	require.NoError(t, err)

	// 89 <= 100 < 144, so the table must stop at 89.
	assert.Equal(t, uint64(89), table.Capacity())
}

func TestBuildRejectsTooSmallCapacity(t *testing.T) {
	_, err := Build(0)
	assert.Error(t, err)
}

func TestBuildSingleTermCapacity(t *testing.T) {
	table, err := Build(1)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())
	assert.Equal(t, uint64(1), table.Value(0))
}

func TestSmallestIndexAtLeast(t *testing.T) {
	table, err := Build(144)
	require.NoError(t, err)

	cases := []struct {
		n       uint64
		wantIdx int
		wantOK  bool
	}{
		{0, 0, true},
		{1, 0, true},
		{2, 1, true},
		{4, 3, true}, // F[3] = 5
		{89, 9, true},
		{90, 10, true}, // F[10] = 144
		{144, 10, true},
		{145, 0, false},
	}

	for _, c := range cases {
		idx, ok := table.SmallestIndexAtLeast(c.n)
		assert.Equalf(t, c.wantOK, ok, "n=%d", c.n)
		if ok {
			assert.Equalf(t, c.wantIdx, idx, "n=%d", c.n)
			assert.GreaterOrEqualf(t, table.Value(idx), c.n, "n=%d", c.n)
			if idx > 0 {
				assert.Lessf(t, table.Value(idx-1), c.n, "n=%d", c.n)
			}
		}
	}
}

func TestValuePanicsOutOfRange(t *testing.T) {
	table, err := Build(144)
	require.NoError(t, err)

	assert.Panics(t, func() { table.Value(-1) })
	assert.Panics(t, func() { table.Value(table.Count()) })
}
