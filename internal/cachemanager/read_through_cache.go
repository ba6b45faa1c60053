package cachemanager

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// ReadThroughCache loads a value with fn on a miss and stores it.
// Concurrent misses for one key share a single fn call, which runs
// detached from the cancellation of whichever caller started it.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool

	group    singleflight.Group
	inflight atomic.Int32
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	// the shared load outlives any single caller; each caller still stops
	// waiting when its own ctx ends
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(string(key), func() (any, error) {
		// a load that finished while we queued already filled the cache
		if value, ok := r.cache.Get(loadCtx, key); ok {
			return value, nil
		}

		r.inflight.Add(1)
		defer r.inflight.Add(-1)

		value, err := r.fn(loadCtx, input)
		if err != nil {
			return value, err
		}
		r.cache.Set(loadCtx, key, value, ttl)
		return value, nil
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		value, _ := res.Val.(V)
		return value, res.Err
	}
}

// Peek returns the cached value without loading.
func (r *ReadThroughCache[K, V, I]) Peek(ctx context.Context, key K) (V, bool) {
	return r.cache.Get(ctx, key)
}

// Invalidate drops key so the next Get loads again.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, key K) error {
	r.group.Forget(string(key))
	return r.cache.Delete(ctx, key)
}

// Loading reports whether a load is currently running.
func (r *ReadThroughCache[K, V, I]) Loading() bool {
	return r.inflight.Load() > 0
}
