package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"hangar/internal/asset/models"
	"hangar/pkg/domain"
)

// Cached wraps a Store with a Redis read-through cache for single-asset
// reads. Every mutation invalidates the cached record before it is applied,
// so precondition reads inside Execute always hit the backing store fresh.
// Cache failures degrade to the backing store and are logged, never
// surfaced.
type Cached struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(id domain.AssetID) string {
	return "hangar:asset:" + id.String()
}

func (c *Cached) Get(ctx context.Context, id domain.AssetID) (*models.Asset, error) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var asset models.Asset
		if err := json.Unmarshal(raw, &asset); err == nil {
			return &asset, nil
		}
		// Corrupt entry: drop it and fall through.
		c.invalidate(ctx, id)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "asset cache read failed", "asset_id", id.String(), "error", err)
	}

	asset, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(asset); err == nil {
		if err := c.client.Set(ctx, cacheKey(id), raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "asset cache write failed", "asset_id", id.String(), "error", err)
		}
	}
	return asset, nil
}

func (c *Cached) Create(ctx context.Context, asset *models.Asset) error {
	c.invalidate(ctx, asset.ID)
	return c.inner.Create(ctx, asset)
}

func (c *Cached) Execute(ctx context.Context, id domain.AssetID,
	validate func(*models.Asset) error,
	mutate func(*models.Asset)) (*models.Asset, error) {

	c.invalidate(ctx, id)
	asset, err := c.inner.Execute(ctx, id, validate, mutate)
	if err != nil {
		return nil, err
	}
	// Drop again so a cached read concurrent with the mutation cannot pin
	// the pre-mutation record.
	c.invalidate(ctx, id)
	return asset, nil
}

func (c *Cached) List(ctx context.Context) ([]*models.Asset, error) {
	return c.inner.List(ctx)
}

func (c *Cached) ListByOwner(ctx context.Context, owner domain.AccountID) ([]*models.Asset, error) {
	return c.inner.ListByOwner(ctx, owner)
}

func (c *Cached) HashBound(ctx context.Context, hash domain.MetadataHash) (bool, error) {
	return c.inner.HashBound(ctx, hash)
}

func (c *Cached) invalidate(ctx context.Context, id domain.AssetID) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "asset cache invalidation failed", "asset_id", id.String(), "error", err)
	}
}
