// Package cache keeps active links in Redis so hot redirects skip the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/atinyakov/shortlinks/internal/storage"
)

// DefaultTTL applies when NewRedisLinkCache is given a non-positive ttl.
const DefaultTTL = time.Minute

// tombstone marks a code whose cached record must not be served or refilled.
const tombstone = "-"

func linkKey(code string) string {
	return "link:" + code
}

type RedisLinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLinkCache connects to addr lazily; the first command dials.
func NewRedisLinkCache(addr string, ttl time.Duration) *RedisLinkCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       0,
		Protocol: 2,
	})
	return NewRedisLinkCacheFromClient(client, ttl)
}

func NewRedisLinkCacheFromClient(client *redis.Client, ttl time.Duration) *RedisLinkCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLinkCache{client: client, ttl: ttl}
}

// Get returns (nil, nil) on a miss and for a tombstone.
func (r *RedisLinkCache) Get(ctx context.Context, code string) (*storage.Link, error) {
	res := r.client.Get(ctx, linkKey(code))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}
	if string(buf) == tombstone {
		return nil, nil
	}

	link := &storage.Link{}
	if err := json.Unmarshal(buf, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Add caches link unless the key already holds an entry or a tombstone.
// A deleted link is recorded as a tombstone.
func (r *RedisLinkCache) Add(ctx context.Context, link *storage.Link) error {
	if link.IsDeleted() {
		return r.Invalidate(ctx, link.ShortCode)
	}

	marshal, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return r.client.SetNX(ctx, linkKey(link.ShortCode), marshal, r.ttl).Err()
}

// Invalidate replaces whatever is cached for code with a tombstone that
// lives for one entry TTL. Fills started before the store write cannot
// bring the old record back while it exists.
func (r *RedisLinkCache) Invalidate(ctx context.Context, code string) error {
	return r.client.Set(ctx, linkKey(code), tombstone, r.ttl).Err()
}

func (r *RedisLinkCache) PingContext(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisLinkCache) Close() error {
	return r.client.Close()
}
