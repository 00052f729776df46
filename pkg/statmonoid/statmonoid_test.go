package statmonoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreate(t *testing.T) {
	s := StatisticMonoid{}.Create(5)
	assert.Equal(t, 5.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 5.0, s.Last)
	assert.Equal(t, 5.0, s.Sum)
	assert.Equal(t, uint64(1), s.Count)
	assert.Equal(t, 25.0, s.SumSquares)
}

func TestMergeSingle(t *testing.T) {
	m := StatisticMonoid{}
	s := m.Create(3)
	merged := m.Merge(s)
	assert.Equal(t, s, merged)
}

func TestMergeOrderSensitiveLast(t *testing.T) {
	m := StatisticMonoid{}
	a := m.Create(1)
	b := m.Create(2)
	c := m.Create(3)

	merged := m.Merge(a, b, c)
	assert.Equal(t, 3.0, merged.Last)
	assert.Equal(t, 1.0, merged.Min)
	assert.Equal(t, 3.0, merged.Max)
	assert.Equal(t, 6.0, merged.Sum)
	assert.Equal(t, uint64(3), merged.Count)
	assert.Equal(t, 14.0, merged.SumSquares)

	reversed := m.Merge(c, b, a)
	assert.Equal(t, 1.0, reversed.Last)
	assert.Equal(t, merged.Sum, reversed.Sum)
}

func TestAvgAndVar(t *testing.T) {
	m := StatisticMonoid{}
	merged := m.Merge(m.Create(1), m.Create(2), m.Create(3), m.Create(4), m.Create(5))

	assert.Equal(t, 3.0, merged.Avg())
	assert.InDelta(t, 2.0, merged.Var(), 1e-9)
}

func TestWorkedExample(t *testing.T) {
	// batch [1,2,3,4,5,6,7] over the most recent 5 and 3 values, as traced
	// against a window of size 5: get(5) covers [3..7], get(3) covers [5..7].
	m := StatisticMonoid{}

	last5 := m.Merge(m.Create(3), m.Create(4), m.Create(5), m.Create(6), m.Create(7))
	assert.Equal(t, Statistic{Min: 3, Max: 7, Last: 7, Sum: 25, Count: 5, SumSquares: 135}, last5)

	last3 := m.Merge(m.Create(5), m.Create(6), m.Create(7))
	assert.Equal(t, Statistic{Min: 5, Max: 7, Last: 7, Sum: 18, Count: 3, SumSquares: 110}, last3)
}
