package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/shortlinks/internal/storage"
)

func unreachable(t *testing.T) *RedisLinkCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisLinkCacheFromClient(client, 0)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLinkKey(t *testing.T) {
	assert.Equal(t, "link:Ab3dE9", linkKey("Ab3dE9"))
}

func TestNewRedisLinkCache_DefaultTTL(t *testing.T) {
	c := NewRedisLinkCache("127.0.0.1:6379", 0)
	defer c.Close()
	assert.Equal(t, DefaultTTL, c.ttl)

	c2 := NewRedisLinkCache("127.0.0.1:6379", 5*time.Second)
	defer c2.Close()
	assert.Equal(t, 5*time.Second, c2.ttl)
}

func TestRedisLinkCache_ErrorsSurface(t *testing.T) {
	c := unreachable(t)
	ctx := context.Background()

	link, err := c.Get(ctx, "Ab3dE9")
	require.Error(t, err)
	assert.Nil(t, link)

	assert.Error(t, c.Add(ctx, &storage.Link{ShortCode: "Ab3dE9", OriginalURL: "https://example.com"}))
	assert.Error(t, c.Invalidate(ctx, "Ab3dE9"))
	assert.Error(t, c.PingContext(ctx))
}

func newMiniCache(t *testing.T, ttl time.Duration) (*RedisLinkCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2})
	c := NewRedisLinkCacheFromClient(client, ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisLinkCache_GetAdd(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		link storage.Link
	}{
		{
			name: "anonymous link",
			link: storage.Link{
				ID:          uuid.New(),
				OriginalURL: "https://example.com/a?b=c",
				ShortCode:   "Ab3dE9",
				CreatedAt:   created,
				UpdatedAt:   created,
			},
		},
		{
			name: "owned link",
			link: storage.Link{
				ID:          uuid.New(),
				OriginalURL: "https://example.org/owned",
				ShortCode:   "Own3d1",
				OwnerID:     uuid.NullUUID{UUID: uuid.New(), Valid: true},
				CreatedAt:   created,
				UpdatedAt:   created.Add(time.Hour),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mr := newMiniCache(t, 30*time.Second)
			ctx := context.Background()

			got, err := c.Get(ctx, tt.link.ShortCode)
			require.NoError(t, err)
			assert.Nil(t, got)

			link := tt.link
			require.NoError(t, c.Add(ctx, &link))
			assert.Equal(t, 30*time.Second, mr.TTL(linkKey(link.ShortCode)))

			got, err = c.Get(ctx, link.ShortCode)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, link.ID, got.ID)
			assert.Equal(t, link.OriginalURL, got.OriginalURL)
			assert.Equal(t, link.ShortCode, got.ShortCode)
			assert.Equal(t, link.OwnerID, got.OwnerID)
			assert.True(t, link.CreatedAt.Equal(got.CreatedAt))
			assert.True(t, link.UpdatedAt.Equal(got.UpdatedAt))
			assert.Nil(t, got.DeletedAt)

			mr.FastForward(31 * time.Second)
			got, err = c.Get(ctx, link.ShortCode)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestRedisLinkCache_AddKeepsExistingEntry(t *testing.T) {
	c, _ := newMiniCache(t, time.Minute)
	ctx := context.Background()

	first := &storage.Link{ID: uuid.New(), ShortCode: "Ab3dE9", OriginalURL: "https://first.example"}
	second := &storage.Link{ID: first.ID, ShortCode: "Ab3dE9", OriginalURL: "https://second.example"}
	require.NoError(t, c.Add(ctx, first))
	require.NoError(t, c.Add(ctx, second))

	got, err := c.Get(ctx, "Ab3dE9")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://first.example", got.OriginalURL)
}

func TestRedisLinkCache_Invalidate(t *testing.T) {
	c, mr := newMiniCache(t, time.Minute)
	ctx := context.Background()
	link := &storage.Link{ID: uuid.New(), ShortCode: "Ab3dE9", OriginalURL: "https://example.com"}

	require.NoError(t, c.Add(ctx, link))
	require.NoError(t, c.Invalidate(ctx, link.ShortCode))
	assert.Equal(t, time.Minute, mr.TTL(linkKey(link.ShortCode)))

	got, err := c.Get(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Nil(t, got)

	// a stale fill after the invalidation is refused
	require.NoError(t, c.Add(ctx, link))
	got, err = c.Get(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Nil(t, got)

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, c.Add(ctx, link))
	got, err = c.Get(ctx, link.ShortCode)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, link.ID, got.ID)
}

func TestRedisLinkCache_AddDeletedLeavesTombstone(t *testing.T) {
	c, mr := newMiniCache(t, time.Minute)
	ctx := context.Background()
	deletedAt := time.Now().UTC()
	link := &storage.Link{ID: uuid.New(), ShortCode: "Ab3dE9", OriginalURL: "https://example.com"}

	require.NoError(t, c.Add(ctx, link))
	link.DeletedAt = &deletedAt
	require.NoError(t, c.Add(ctx, link))

	raw, err := mr.Get(linkKey(link.ShortCode))
	require.NoError(t, err)
	assert.Equal(t, tombstone, raw)

	got, err := c.Get(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisLinkCache_CorruptEntry(t *testing.T) {
	c, mr := newMiniCache(t, time.Minute)
	require.NoError(t, mr.Set(linkKey("Ab3dE9"), "{not json"))

	got, err := c.Get(context.Background(), "Ab3dE9")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRedisLinkCache_Ping(t *testing.T) {
	c, _ := newMiniCache(t, time.Minute)
	assert.NoError(t, c.PingContext(context.Background()))
}
