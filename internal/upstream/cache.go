package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/search-service/internal/feed"
	"jobmate/search-service/internal/model"
)

const cacheKeyPrefix = "search:page:"

// ErrCacheMiss is returned by a PageCache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// PageCache stores raw page bodies under a key with a TTL.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisPageCache adapts a go-redis client to PageCache.
type RedisPageCache struct {
	rdb *redis.Client
}

// NewRedisPageCache wraps rdb.
func NewRedisPageCache(rdb *redis.Client) *RedisPageCache {
	return &RedisPageCache{rdb: rdb}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedFetcher serves pages from a PageCache and falls back to the wrapped
// fetcher on a miss. Cache failures are logged and never turn into fetch
// failures; upstream failures are never cached.
type CachedFetcher struct {
	next  feed.Fetcher
	cache PageCache
	ttl   time.Duration
}

var _ feed.Fetcher = (*CachedFetcher)(nil)

// NewCachedFetcher returns next wrapped with cache.
func NewCachedFetcher(next feed.Fetcher, cache PageCache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache, ttl: ttl}
}

func cacheKey(req model.PageRequest) string {
	return fmt.Sprintf("%s%d:%d", cacheKeyPrefix, req.Limit, req.Offset)
}

// FetchPage implements feed.Fetcher.
func (f *CachedFetcher) FetchPage(ctx context.Context, req model.PageRequest) (model.PageResponse, error) {
	key := cacheKey(req)

	raw, err := f.cache.Get(ctx, key)
	switch {
	case err == nil:
		var page model.PageResponse
		if err := json.Unmarshal(raw, &page); err == nil {
			return page, nil
		}
		slog.Warn("discarding undecodable cached page", "key", key)
	case !errors.Is(err, ErrCacheMiss):
		slog.Warn("page cache read failed", "key", key, "err", err)
	}

	page, err := f.next.FetchPage(ctx, req)
	if err != nil {
		return model.PageResponse{}, err
	}

	raw, err = json.Marshal(page)
	if err != nil {
		slog.Warn("page cache encode failed", "key", key, "err", err)
		return page, nil
	}
	if err := f.cache.Set(ctx, key, raw, f.ttl); err != nil {
		slog.Warn("page cache write failed", "key", key, "err", err)
	}
	return page, nil
}
