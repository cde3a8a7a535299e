package service

import (
	"context"

	"golang.org/x/sync/singleflight"

	"inventory/internal/cache"
	dom "inventory/internal/domain"
)

// CategoryService lists the product categories.
type CategoryService struct {
	categories CategoryLister
	cache      *cache.CatalogCache
	sf         singleflight.Group
}

// CategoryLister is the slice of the category repository this service needs.
type CategoryLister interface {
	List(ctx context.Context) ([]dom.Category, error)
}

// NewCategoryService creates a CategoryService. If c is nil, caching is disabled.
func NewCategoryService(categories CategoryLister, c *cache.CatalogCache) *CategoryService {
	return &CategoryService{categories: categories, cache: c}
}

// List returns every category. The list changes rarely, so reads go through
// a TTL-bounded cache behind singleflight.
func (s *CategoryService) List(ctx context.Context) ([]dom.Category, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("categories", func() (interface{}, error) {
			if list, err := s.cache.GetCategories(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.categories.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetCategories(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Category), nil
	}
	return s.categories.List(ctx)
}
