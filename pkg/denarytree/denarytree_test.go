package denarytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tc360950/statwindow/pkg/statmonoid"
)

// sumAndLast is a reduced monoid with none of Statistic's fields beyond sum
// and last, used to prove the tree is generic over statmonoid.Monoid[T]
// rather than hardwired to statmonoid.Statistic.
type sumAndLast struct {
	sum  float64
	last float64
}

type sumAndLastMonoid struct{}

func (sumAndLastMonoid) Create(value float64) sumAndLast {
	return sumAndLast{sum: value, last: value}
}

func (sumAndLastMonoid) Merge(stats ...sumAndLast) sumAndLast {
	out := stats[0]
	for _, s := range stats[1:] {
		out.sum += s.sum
		out.last = s.last
	}
	return out
}

func TestGenericOverReducedMonoid(t *testing.T) {
	tree, err := New[sumAndLast](5, sumAndLastMonoid{})
	require.NoError(t, err)

	require.NoError(t, tree.Add([]float64{1, 2, 3}, 0))
	require.NoError(t, tree.Add([]float64{4, 5, 6}, 1))
	require.NoError(t, tree.Add([]float64{7, 8, 9}, 2))
	// leaves are now [1, 4, 7, 8, 9]

	stat, ok := tree.Calculate(0, 2)
	require.True(t, ok)
	assert.Equal(t, sumAndLast{sum: 12, last: 7}, stat)
}

func TestGenericOverReducedMonoidLargeOffsetInsert(t *testing.T) {
	tree, err := New[sumAndLast](10000, sumAndLastMonoid{})
	require.NoError(t, err)

	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i)
	}
	require.NoError(t, tree.Add(values, 25))

	stat, ok := tree.Calculate(0, 1000)
	require.True(t, ok)

	var wantSum float64
	for v := 0; v <= 1000-25; v++ {
		wantSum += float64(v)
	}
	assert.Equal(t, wantSum, stat.sum)
	assert.Equal(t, 975.0, stat.last)
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	_, err := New[statmonoid.Statistic](0, statmonoid.StatisticMonoid{})
	assert.Error(t, err)
}

func TestEmptyTreeCalculateIsAbsent(t *testing.T) {
	tree, err := New[statmonoid.Statistic](100, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	_, ok := tree.Calculate(0, 9)
	assert.False(t, ok)
}

func TestAddEmptyIsNoop(t *testing.T) {
	tree, err := New[statmonoid.Statistic](10, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	require.NoError(t, tree.Add(nil, 0))
	_, ok := tree.Calculate(0, 9)
	assert.False(t, ok)
}

func TestAddOutOfRange(t *testing.T) {
	tree, err := New[statmonoid.Statistic](10, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	err = tree.Add([]float64{1, 2, 3}, 8)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSingleLeafTree(t *testing.T) {
	tree, err := New[statmonoid.Statistic](1, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	require.NoError(t, tree.Add([]float64{42}, 0))
	stat, ok := tree.Calculate(0, 0)
	require.True(t, ok)
	assert.Equal(t, 42.0, stat.Last)
}

func TestAlignedWindowSingleMerge(t *testing.T) {
	tree, err := New[statmonoid.Statistic](100, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}
	require.NoError(t, tree.Add(values, 0))

	stat, ok := tree.Calculate(0, 99)
	require.True(t, ok)
	assert.Equal(t, 1.0, stat.Min)
	assert.Equal(t, 100.0, stat.Max)
	assert.Equal(t, 100.0, stat.Last)
	assert.Equal(t, uint64(100), stat.Count)
}

func TestPartialWriteLeavesRestAbsent(t *testing.T) {
	tree, err := New[statmonoid.Statistic](1000, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	require.NoError(t, tree.Add([]float64{1, 2, 3}, 0))

	stat, ok := tree.Calculate(0, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(3), stat.Count)

	_, ok = tree.Calculate(3, 999)
	assert.False(t, ok)

	// A range straddling present and absent leaves returns only the present part.
	stat, ok = tree.Calculate(0, 999)
	require.True(t, ok)
	assert.Equal(t, uint64(3), stat.Count)
}

func TestOverwriteUpdatesAncestors(t *testing.T) {
	tree, err := New[statmonoid.Statistic](10, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	require.NoError(t, tree.Add([]float64{1, 2, 3}, 0))
	require.NoError(t, tree.Add([]float64{99}, 1))

	stat, ok := tree.Calculate(0, 2)
	require.True(t, ok)
	assert.Equal(t, 99.0, stat.Max)
	assert.Equal(t, 3.0, stat.Last)
}

func TestMonoidPartitionProperty(t *testing.T) {
	tree, err := New[statmonoid.Statistic](1000, statmonoid.StatisticMonoid{})
	require.NoError(t, err)

	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i)
	}
	require.NoError(t, tree.Add(values, 0))

	whole, ok := tree.Calculate(123, 456)
	require.True(t, ok)

	left, ok := tree.Calculate(123, 300)
	require.True(t, ok)
	right, ok := tree.Calculate(301, 456)
	require.True(t, ok)

	m := statmonoid.StatisticMonoid{}
	combined := m.Merge(left, right)
	assert.Equal(t, whole, combined)
}
