// Package cache provides a short-TTL Redis cache for listing search results.
// The cache is an optimization only; every operation degrades to a no-op when
// Redis is not configured or unavailable.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/logger"
)

const searchKeyPrefix = "listings:search:"

type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache returns nil when addr is empty; a nil cache is safe to use.
func NewListingCache(addr, password string, db, ttlSeconds int) *ListingCache {
	if addr == "" {
		return nil
	}
	return &ListingCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func searchKey(f domain.ListingFilter) string {
	avail := "any"
	if f.Available != nil {
		avail = fmt.Sprintf("%t", *f.Available)
	}
	return fmt.Sprintf("%s%s:%s:%d:%d:%s", searchKeyPrefix, f.Category, f.Location, f.MinPrice, f.MaxPrice, avail)
}

// GetSearch returns cached results for the filter, or nil on miss or error.
func (c *ListingCache) GetSearch(ctx context.Context, f domain.ListingFilter) []domain.Listing {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, searchKey(f)).Bytes()
	if err != nil {
		return nil
	}
	var listings []domain.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil
	}
	return listings
}

// SetSearch stores results for the filter, best-effort.
func (c *ListingCache) SetSearch(ctx context.Context, f domain.ListingFilter, listings []domain.Listing) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(listings)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, searchKey(f), raw, c.ttl).Err(); err != nil {
		logger.Debug("cache: set failed", "error", err)
	}
}

// InvalidateSearch drops all cached search results. Called on listing writes
// and on availability flips from the rental lifecycle.
func (c *ListingCache) InvalidateSearch(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, searchKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Debug("cache: delete failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		logger.Debug("cache: scan failed", "error", err)
	}
}
