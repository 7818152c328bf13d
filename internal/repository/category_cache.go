package repository

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"join/internal/model"
)

const categoriesCacheKey = "join:categories"

// CategoryCache wraps a category repository with a Redis read-through cache
// for the category list, which every board view fetches.
type CategoryCache struct {
	base  CategoryRepositoryInterface
	redis *redis.Client
	ttl   time.Duration
}

var _ CategoryRepositoryInterface = (*CategoryCache)(nil)

func NewCategoryCache(base CategoryRepositoryInterface, client *redis.Client, ttl time.Duration) *CategoryCache {
	if base == nil {
		panic("repository.NewCategoryCache: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &CategoryCache{base: base, redis: client, ttl: ttl}
}

func (c *CategoryCache) Create(ctx context.Context, category *model.Category) error {
	if err := c.base.Create(ctx, category); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *CategoryCache) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return c.base.GetByID(ctx, id)
}

func (c *CategoryCache) List(ctx context.Context) ([]model.Category, error) {
	if categories, ok := c.load(ctx); ok {
		return categories, nil
	}

	categories, err := c.base.List(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, categories)
	return categories, nil
}

func (c *CategoryCache) load(ctx context.Context) ([]model.Category, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, categoriesCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// fall back to the database; a broken entry is dropped
			_ = c.redis.Del(ctx, categoriesCacheKey).Err()
		}
		return nil, false
	}
	var categories []model.Category
	if err := sonic.Unmarshal(data, &categories); err != nil {
		_ = c.redis.Del(ctx, categoriesCacheKey).Err()
		return nil, false
	}
	return categories, true
}

func (c *CategoryCache) store(ctx context.Context, categories []model.Category) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(categories)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, categoriesCacheKey, data, c.ttl).Err()
}

func (c *CategoryCache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, categoriesCacheKey).Err()
}
