package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	dom "inventory/internal/domain"
)

const (
	keyCategories = "catalog:categories"
	keySearch     = "catalog:search:"
)

// CatalogCache caches the category list and product search pages in Redis.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCatalogCache returns a new CatalogCache.
func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

// GetCategories returns the cached category list or nil on miss.
func (c *CatalogCache) GetCategories(ctx context.Context) ([]dom.Category, error) {
	b, err := c.rdb.Get(ctx, keyCategories).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Category
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetCategories stores the category list.
func (c *CatalogCache) SetCategories(ctx context.Context, list []dom.Category) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyCategories, b, c.ttl).Err()
}

// GetSearch returns the cached page for the filter/page combination, or nil on miss.
func (c *CatalogCache) GetSearch(ctx context.Context, f dom.ProductFilter, page dom.PageRequest) (*dom.Page[dom.Product], error) {
	b, err := c.rdb.Get(ctx, SearchKey(f, page)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p dom.Page[dom.Product]
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetSearch stores a search page.
func (c *CatalogCache) SetSearch(ctx context.Context, f dom.ProductFilter, page dom.PageRequest, result dom.Page[dom.Product]) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, SearchKey(f, page), b, c.ttl).Err()
}

// InvalidateSearch removes every cached search page (cache invalidation on
// any product write).
func (c *CatalogCache) InvalidateSearch(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keySearch+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// SearchKey derives a stable cache key from the filter and page parameters.
func SearchKey(f dom.ProductFilter, page dom.PageRequest) string {
	var sb strings.Builder
	sb.WriteString(keySearch)
	sb.WriteString(strings.ToLower(strings.TrimSpace(f.Name)))
	sb.WriteByte(':')
	if f.CategoryID != nil {
		fmt.Fprintf(&sb, "%d", *f.CategoryID)
	}
	sb.WriteByte(':')
	if f.MinPrice != nil {
		sb.WriteString(f.MinPrice.String())
	}
	sb.WriteByte(':')
	if f.MaxPrice != nil {
		sb.WriteString(f.MaxPrice.String())
	}
	fmt.Fprintf(&sb, ":%d:%d:%s", page.Page, page.Size, page.Sort)
	return sb.String()
}
