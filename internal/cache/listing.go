package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ProfilesCachePrefix keys cached pages of the public profile directory
	ProfilesCachePrefix = "listing:profiles:"

	// PostsCachePrefix keys cached pages of the public post feed
	PostsCachePrefix = "listing:posts:"

	// ListingCacheTTL bounds staleness between a write and the async
	// invalidation catching up
	ListingCacheTTL = 30 * time.Second
)

// ListingCache caches rendered pages of the two public list endpoints,
// keyed by (skip, limit). Pages are invalidated asynchronously by the
// activity worker after any write, and expire on their own as a backstop.
type ListingCache interface {
	// GetPage returns the cached JSON for a page, found=false on miss.
	GetPage(ctx context.Context, prefix string, skip, limit int) (data []byte, found bool, err error)

	// SetPage stores the rendered JSON for a page with the listing TTL.
	SetPage(ctx context.Context, prefix string, skip, limit int, v interface{}) error

	// InvalidatePrefix drops every cached page under a prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// RedisListingCache implements ListingCache on plain string keys.
type RedisListingCache struct {
	client *redis.Client
}

// NewListingCache creates a ListingCache backed by Redis.
func NewListingCache(client *redis.Client) ListingCache {
	return &RedisListingCache{client: client}
}

func pageKey(prefix string, skip, limit int) string {
	return fmt.Sprintf("%s%d:%d", prefix, skip, limit)
}

func (c *RedisListingCache) GetPage(ctx context.Context, prefix string, skip, limit int) ([]byte, bool, error) {
	key := pageKey(prefix, skip, limit)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get listing page: %w", err)
	}

	return data, true, nil
}

func (c *RedisListingCache) SetPage(ctx context.Context, prefix string, skip, limit int, v interface{}) error {
	key := pageKey(prefix, skip, limit)

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal listing page: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ListingCacheTTL).Err(); err != nil {
		log.Printf("[ListingCache] SetPage FAILED: key=%s err=%v", key, err)
		return fmt.Errorf("set listing page: %w", err)
	}

	return nil
}

// InvalidatePrefix walks the keyspace with SCAN and deletes in batches.
// The page count is tiny (a handful of skip/limit combinations inside a
// 30s TTL window), so the scan is cheap.
func (c *RedisListingCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	startTime := time.Now()
	var cursor uint64
	var deleted int64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			log.Printf("[ListingCache] InvalidatePrefix FAILED: prefix=%s err=%v", prefix, err)
			return fmt.Errorf("scan listing keys: %w", err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("delete listing keys: %w", err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	log.Printf("[ListingCache] InvalidatePrefix OK: prefix=%s deleted=%d duration=%v",
		prefix, deleted, time.Since(startTime))
	return nil
}
