package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Memo computes a value on demand and keeps it for TTL. Concurrent callers
// that miss share a single load.
type Memo[V any] struct {
	cache *TTLCache[string, V]
	group singleflight.Group
	ttl   time.Duration
	load  func(ctx context.Context) (V, error)
}

// NewMemo returns a Memo that calls load on a miss.
func NewMemo[V any](ttl time.Duration, load func(ctx context.Context) (V, error)) *Memo[V] {
	return &Memo[V]{cache: NewTTLCache[string, V](), ttl: ttl, load: load}
}

const memoKey = "value"

// Get returns the cached value or loads it. Load errors are not cached.
// The load runs on a context detached from ctx's cancellation, so one caller
// going away does not fail the others waiting on the same load.
func (m *Memo[V]) Get(ctx context.Context) (V, error) {
	if v, ok := m.cache.Get(memoKey); ok {
		return v, nil
	}
	res, err, _ := m.group.Do(memoKey, func() (any, error) {
		if v, ok := m.cache.Get(memoKey); ok {
			return v, nil
		}
		v, err := m.load(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		m.cache.Set(memoKey, v, m.ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Peek returns the cached value without loading.
func (m *Memo[V]) Peek() (V, bool) { return m.cache.Get(memoKey) }

// Invalidate drops the cached value; the next Get reloads.
func (m *Memo[V]) Invalidate() { m.cache.Delete(memoKey) }
