package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aasim47/vendorconex/internal/domain"
)

const productKeyPrefix = "product:"

// ProductCache is a read-through Redis cache for single-product lookups.
// The cache is best effort: a Redis failure is logged and treated as a miss,
// never surfaced to the caller.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductCache creates a product cache with the given TTL.
func NewProductCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached product, or (nil, false) on a miss.
func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, bool) {
	data, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "product cache get failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.WarnContext(ctx, "product cache unmarshal failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return &product, true
}

// Set stores the product with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, product *domain.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.WarnContext(ctx, "product cache marshal failed",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, productKeyPrefix+product.ID, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache set failed",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops the cached product. Called on every catalog write so the
// next read sees the store, not a stale document.
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, productKeyPrefix+id).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache invalidate failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// Ping reports Redis connectivity for the readiness probe.
func (c *ProductCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
