// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go caches the serialized ethics catalog in Valkey so admin reads
// skip the three-table query. Saves overwrite the entry.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ethicsadmin/internal/models"
)

const (
	// CatalogKey is the Valkey key holding the catalog JSON.
	CatalogKey = "catalog:ethics"

	// DefaultCatalogTTL is how long a cached catalog stays valid.
	DefaultCatalogTTL = 5 * time.Minute
)

// CatalogCache stores the catalog in Valkey. Errors are logged and
// treated as misses; the database stays the source of truth.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get returns the cached catalog, or false on a miss.
func (cc *CatalogCache) Get(ctx context.Context) (*models.Catalog, bool) {
	val, err := cc.client.Get(ctx, CatalogKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "error", err)
		return nil, false
	}

	var c models.Catalog
	if err := json.Unmarshal(val, &c); err != nil {
		slog.Warn("catalog cache corrupt entry, dropping", "error", err)
		cc.Invalidate(ctx)
		return nil, false
	}
	slog.Debug("catalog cache hit")
	return &c, true
}

// Set stores the catalog with the configured TTL.
func (cc *CatalogCache) Set(ctx context.Context, c *models.Catalog) {
	data, err := json.Marshal(c)
	if err != nil {
		slog.Warn("catalog cache marshal error", "error", err)
		return
	}
	if err := cc.client.Set(ctx, CatalogKey, data, cc.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "error", err)
	}
}

// Invalidate removes the cached catalog.
func (cc *CatalogCache) Invalidate(ctx context.Context) {
	if err := cc.client.Del(ctx, CatalogKey).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "error", err)
		return
	}
	slog.Debug("catalog cache invalidated")
}
