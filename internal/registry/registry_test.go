package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	r := New(100)

	a, err := r.GetOrCreate("AAPL")
	require.NoError(t, err)
	b, err := r.GetOrCreate("AAPL")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Size())
}

func TestLookupMiss(t *testing.T) {
	r := New(100)

	_, ok := r.Lookup("AAPL")
	assert.False(t, ok)
}

func TestConcurrentGetOrCreateYieldsOneStorage(t *testing.T) {
	r := New(100)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.GetOrCreate("AAPL")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Size())
}
