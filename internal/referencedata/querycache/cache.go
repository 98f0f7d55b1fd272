// Package querycache memoizes remote query results by key, collapses
// concurrent identical fetches into one and drops results by tag when a
// mutation makes them stale.
package querycache

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dealer-admin/internal/common/config"
	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/metrics"
	"dealer-admin/internal/models"
)

// FetchFunc loads the encoded result from upstream.
type FetchFunc func(ctx context.Context) ([]byte, error)

type Cache struct {
	store        Store
	prefix       string
	ttl          time.Duration
	fetchTimeout time.Duration
	log          logger.Logger

	group singleflight.Group

	mu          sync.Mutex
	generations map[models.Tag]uint64
	inflight    map[string][]models.Tag
}

func New(store Store, cfg config.CacheConfig, fetchTimeout time.Duration, log logger.Logger) *Cache {
	return &Cache{
		store:        store,
		prefix:       cfg.KeyPrefix,
		ttl:          config.GetDuration(cfg.TTL),
		fetchTimeout: fetchTimeout,
		log:          log,
		generations:  make(map[models.Tag]uint64),
		inflight:     make(map[string][]models.Tag),
	}
}

// Key returns the cache key for query with params in canonical order.
func Key(prefix string, query models.QueryType, params map[string]string) string {
	key := prefix + string(query)
	if len(params) == 0 {
		return key
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return key + "?" + values.Encode()
}

// Fetch returns the cached result for (query, params) or loads it with
// fetch. Concurrent callers with the same key share one upstream call. The
// shared call is not cancelled when one caller gives up.
func (c *Cache) Fetch(ctx context.Context, query models.QueryType, params map[string]string, tags []models.Tag, fetch FetchFunc) ([]byte, error) {
	key := Key(c.prefix, query, params)

	data, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(string(query), "store_error").Inc()
		c.log.Warn("cache read failed, falling back to upstream", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	case ok:
		metrics.CacheLookups.WithLabelValues(string(query), "hit").Inc()
		return data, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.load(context.WithoutCancel(ctx), key, tags, fetch)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		outcome := "miss"
		if res.Shared {
			outcome = "shared"
		}
		metrics.CacheLookups.WithLabelValues(string(query), outcome).Inc()
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Cache) load(ctx context.Context, key string, tags []models.Tag, fetch FetchFunc) ([]byte, error) {
	gen := c.begin(key, tags)
	defer c.end(key)

	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if !c.stillCurrent(tags, gen) {
		c.log.Debug("skipping cache write for invalidated result", map[string]interface{}{"key": key})
		return data, nil
	}
	if err := c.store.Set(ctx, key, data, c.ttl, tags); err != nil {
		c.log.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		return data, nil
	}
	// an invalidation that ran during Set may have missed the new entry
	if !c.stillCurrent(tags, gen) {
		c.log.Debug("dropping cache entry invalidated during write", map[string]interface{}{"key": key})
		if err := c.store.Delete(ctx, key, tags); err != nil {
			c.log.Warn("cache delete failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return data, nil
}

func (c *Cache) begin(key string, tags []models.Tag) map[models.Tag]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key] = tags
	gen := make(map[models.Tag]uint64, len(tags))
	for _, t := range tags {
		gen[t] = c.generations[t]
	}
	return gen
}

func (c *Cache) end(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Cache) stillCurrent(tags []models.Tag, gen map[models.Tag]uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tags {
		if c.generations[t] != gen[t] {
			return false
		}
	}
	return true
}

// Invalidate drops every cached result tagged with any of tags. In-flight
// fetches for those tags are detached so later callers start a fresh one.
func (c *Cache) Invalidate(ctx context.Context, tags ...models.Tag) error {
	c.mu.Lock()
	for _, t := range tags {
		c.generations[t]++
	}
	for key, keyTags := range c.inflight {
		if hasAny(keyTags, tags) {
			c.group.Forget(key)
		}
	}
	c.mu.Unlock()

	removed, err := c.store.Invalidate(ctx, tags...)
	for _, t := range tags {
		metrics.CacheInvalidations.WithLabelValues(string(t)).Inc()
	}
	if err != nil {
		c.log.Error("cache invalidation failed", map[string]interface{}{"tags": tags, "error": err.Error()})
		return apperrors.NewCacheFailureError("invalidate", err)
	}
	c.log.Debug("cache invalidated", map[string]interface{}{"tags": tags, "removed": removed})
	return nil
}

func hasAny(have, want []models.Tag) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
