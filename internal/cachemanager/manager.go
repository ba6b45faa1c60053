// Package cachemanager provides typed caches over patrickmn/go-cache and a
// read-through wrapper that collapses concurrent misses into one load.
package cachemanager

import (
	"context"
	"time"
)

//go:generate mockery --name CacheManager --with-expecter --output ../mocks --outpkg mocks --structname MockCacheManager

type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
