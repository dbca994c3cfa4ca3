// Package cache memoizes immutable descriptors keyed by type identity.
package cache

import (
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// generation is one lifetime of the cache between two Clear calls.
type generation struct {
	id      uint64
	entries sync.Map
}

// Cache is a concurrent get-or-compute map. Values must be immutable once computed; only
// successful computations are stored, and the first stored value for a key wins.
type Cache[K comparable, V any] struct {
	cur    atomic.Pointer[generation]
	flight singleflight.Group
	keyFn  func(K) string

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats holds cache statistics.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// New creates a cache. keyFn renders a key as a string for coalescing concurrent first
// requests; distinct keys must render differently.
func New[K comparable, V any](keyFn func(K) string) *Cache[K, V] {
	c := &Cache[K, V]{keyFn: keyFn}
	c.cur.Store(&generation{})

	return c
}

// Get returns the stored value for k, if any.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	if v, ok := c.cur.Load().entries.Load(k); ok {
		return v.(V), true
	}

	var zero V

	return zero, false
}

// GetOrCompute returns the stored value for k, computing it with fn on a miss. Concurrent
// misses for the same key share one computation. An error is returned to every waiting
// caller and nothing is stored.
func (c *Cache[K, V]) GetOrCompute(k K, fn func() (V, error)) (V, error) {
	gen := c.cur.Load()

	if v, ok := gen.entries.Load(k); ok {
		c.hits.Add(1)

		return v.(V), nil
	}

	c.misses.Add(1)

	flightKey := strconv.FormatUint(gen.id, 10) + "/" + c.keyFn(k)

	out, err, _ := c.flight.Do(flightKey, func() (any, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}

		// a Clear since the lookup leaves the value in the retired generation only
		stored, _ := gen.entries.LoadOrStore(k, v)

		return stored, nil
	})
	if err != nil {
		var zero V

		return zero, err
	}

	return out.(V), nil
}

// Clear drops every entry. Lookups already in progress finish against the entries they
// started with; the next lookup recomputes.
func (c *Cache[K, V]) Clear() {
	for {
		old := c.cur.Load()
		if c.cur.CompareAndSwap(old, &generation{id: old.id + 1}) {
			return
		}
	}
}

// Len counts the stored entries.
func (c *Cache[K, V]) Len() int {
	n := 0

	c.cur.Load().entries.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Stats returns hit, miss and entry counts since creation.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.Len()}
}

// TypeKey renders the identity of t. Distinct types never share a key, even when their
// String forms collide.
func TypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return strconv.FormatUint(uint64(reflect.ValueOf(t).Pointer()), 16) + ":" + t.String()
}
