package cache_test

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowbinder/internal/cache"
)

func newCache() *cache.Cache[int, []string] {
	return cache.New[int, []string](strconv.Itoa)
}

func TestGetOrCompute(t *testing.T) {
	t.Parallel()

	c := newCache()

	var calls atomic.Int32

	compute := func() ([]string, error) {
		calls.Add(1)

		return []string{"a", "b"}, nil
	}

	first, err := c.GetOrCompute(1, compute)
	require.NoError(t, err)

	second, err := c.GetOrCompute(1, compute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())

	c.Clear()
	assert.Zero(t, c.Len())

	_, ok := c.Get(1)
	assert.False(t, ok)

	third, err := c.GetOrCompute(1, compute)
	require.NoError(t, err)
	assert.Equal(t, first, third)
	assert.Equal(t, int32(2), calls.Load())
}

func TestErrorsAreNotStored(t *testing.T) {
	t.Parallel()

	c := newCache()
	boom := errors.New("boom")

	_, err := c.GetOrCompute(7, func() ([]string, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())

	v, err := c.GetOrCompute(7, func() ([]string, error) { return []string{"ok"}, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, v)
}

func TestConcurrentFirstRequestsConverge(t *testing.T) {
	t.Parallel()

	c := newCache()

	var (
		wg      sync.WaitGroup
		results = make([][]string, 32)
	)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, err := c.GetOrCompute(3, func() ([]string, error) {
				return []string{strconv.Itoa(i)}, nil
			})
			assert.NoError(t, err)

			results[i] = v
		}()
	}

	wg.Wait()

	stored, ok := c.Get(3)
	require.True(t, ok)

	for _, r := range results {
		assert.Equal(t, stored, r)
	}
}

func TestClearDuringLookups(t *testing.T) {
	t.Parallel()

	c := newCache()

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 500 {
				key := (worker + i) % 5

				v, err := c.GetOrCompute(key, func() ([]string, error) {
					return []string{"k", strconv.Itoa(key)}, nil
				})
				if assert.NoError(t, err) {
					assert.Equal(t, []string{"k", strconv.Itoa(key)}, v)
				}

				if i%50 == 0 {
					c.Clear()
				}
			}
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 5)
}
