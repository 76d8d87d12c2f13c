package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedRepository is a read-through Redis cache in front of a Repository.
// GetMany always reads the source so stock checks see live quantities.
// Cache failures fall back to the source.
type CachedRepository struct {
	source Repository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRepository(source Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	return &CachedRepository{source: source, client: client, ttl: ttl, logger: logger}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *CachedRepository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	hit, err := c.read(ctx, productKey(id), &p)
	if err != nil {
		c.logger.Warn("catalog cache read failed, falling back to db", zap.Int64("product_id", id), zap.Error(err))
	}
	if hit {
		return p, nil
	}

	p, err = c.source.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	c.write(ctx, productKey(id), p)
	return p, nil
}

func (c *CachedRepository) List(ctx context.Context, q ListQuery) (Page, error) {
	q, err := q.Normalize()
	if err != nil {
		return Page{}, err
	}

	var page Page
	hit, err := c.read(ctx, q.cacheKey(), &page)
	if err != nil {
		c.logger.Warn("catalog cache read failed, falling back to db", zap.String("key", q.cacheKey()), zap.Error(err))
	}
	if hit {
		return page, nil
	}

	page, err = c.source.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	c.write(ctx, q.cacheKey(), page)
	for _, p := range page.Items {
		c.write(ctx, productKey(p.ID), p)
	}
	return page, nil
}

func (c *CachedRepository) GetMany(ctx context.Context, ids []int64) (map[int64]Product, error) {
	return c.source.GetMany(ctx, ids)
}

// Invalidate drops cached products and every cached listing.
func (c *CachedRepository) Invalidate(ctx context.Context, ids ...int64) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	iter := c.client.Scan(ctx, 0, "products:list:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached listings: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

func (c *CachedRepository) read(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *CachedRepository) write(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to populate catalog cache", zap.String("key", key), zap.Error(err))
	}
}
