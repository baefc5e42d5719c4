package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"duoboard/domain"
)

// Cache wraps a Backend with Redis-backed read caching. Redis failures
// never surface: a broken cache degrades to the base backend, and a
// suspect key is dropped so it cannot serve stale data later.
type Cache struct {
	base  Backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper over base using the provided Redis
// client and TTL. A nil client or zero TTL disables caching entirely.
func NewCache(base Backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base backend is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) LoadBoard(ctx context.Context) (domain.Board, error) {
	var b domain.Board
	if c.loadCached(ctx, BoardRecord, &b) {
		return b, nil
	}
	b, err := c.base.LoadBoard(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	c.storeCached(ctx, BoardRecord, b)
	return b, nil
}

func (c *Cache) SaveBoard(ctx context.Context, b domain.Board) error {
	if err := c.base.SaveBoard(ctx, b); err != nil {
		return err
	}
	c.evict(ctx, BoardRecord)
	return nil
}

func (c *Cache) LoadInfo(ctx context.Context) ([]domain.InfoItem, error) {
	var items []domain.InfoItem
	if c.loadCached(ctx, InfoRecord, &items) {
		return items, nil
	}
	items, err := c.base.LoadInfo(ctx)
	if err != nil {
		return nil, err
	}
	c.storeCached(ctx, InfoRecord, items)
	return items, nil
}

func (c *Cache) SaveInfo(ctx context.Context, items []domain.InfoItem) error {
	if err := c.base.SaveInfo(ctx, items); err != nil {
		return err
	}
	c.evict(ctx, InfoRecord)
	return nil
}

func (c *Cache) loadCached(ctx context.Context, record string, out any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, cacheKey(record)).Bytes()
	if err != nil {
		if err != redis.Nil {
			_ = c.redis.Del(ctx, cacheKey(record)).Err()
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		_ = c.redis.Del(ctx, cacheKey(record)).Err()
		return false
	}
	return true
}

func (c *Cache) storeCached(ctx context.Context, record string, v any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, cacheKey(record), data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, record string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, cacheKey(record)).Result()
}

func cacheKey(record string) string {
	return "duoboard:" + record
}
