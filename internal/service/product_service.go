package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"inventory/internal/cache"
	dom "inventory/internal/domain"
	"inventory/internal/errs"
	"inventory/internal/repo"
)

// CreateProductInput carries the fields for a new product. The id and
// timestamps are server-assigned.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Description string
	CategoryID  int64
	CreatedByID int64
}

// UpdateProductInput overwrites name, price and quantity unconditionally.
// CategoryID reassigns the category only when non-nil. The creator is never
// reassigned.
type UpdateProductInput struct {
	Name       string
	Price      decimal.Decimal
	Quantity   int
	CategoryID *int64
}

// ProductService owns the product business rules: CRUD, stock transitions and
// the multi-criteria search.
type ProductService struct {
	products   repo.ProductRepo
	categories repo.CategoryRepo
	users      repo.UserRepo
	cache      *cache.CatalogCache
	sf         singleflight.Group
}

// NewProductService creates a ProductService. If c is nil, caching is disabled.
func NewProductService(products repo.ProductRepo, categories repo.CategoryRepo, users repo.UserRepo, c *cache.CatalogCache) *ProductService {
	return &ProductService{products: products, categories: categories, users: users, cache: c}
}

// GetAll returns every product. An empty store yields an empty slice.
func (s *ProductService) GetAll(ctx context.Context) ([]dom.Product, error) {
	return s.products.List(ctx)
}

// GetByID returns the product for id.
func (s *ProductService) GetByID(ctx context.Context, id int64) (dom.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Product{}, errs.NotFound("Product %d not found", id)
		}
		return dom.Product{}, err
	}
	return p, nil
}

// Create validates the input, resolves the category and creator references at
// write time and persists the new product.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (dom.Product, error) {
	p := dom.Product{
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		CreatedByID: in.CreatedByID,
	}
	if err := p.Validate(); err != nil {
		return dom.Product{}, err
	}
	if err := s.resolveCategory(ctx, in.CategoryID); err != nil {
		return dom.Product{}, err
	}
	if _, err := s.users.GetByID(ctx, in.CreatedByID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Product{}, errs.NotFound("User %d not found", in.CreatedByID)
		}
		return dom.Product{}, err
	}

	out, err := s.products.Create(ctx, p)
	if err != nil {
		return dom.Product{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

// Update loads the product, overwrites name/price/quantity from the input and
// reassigns the category when one is supplied.
func (s *ProductService) Update(ctx context.Context, id int64, in UpdateProductInput) (dom.Product, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Product{}, err
	}

	existing.Name = in.Name
	existing.Price = in.Price
	existing.Quantity = in.Quantity
	if in.CategoryID != nil {
		if err := s.resolveCategory(ctx, *in.CategoryID); err != nil {
			return dom.Product{}, err
		}
		existing.CategoryID = *in.CategoryID
	}
	if err := existing.Validate(); err != nil {
		return dom.Product{}, err
	}

	out, err := s.products.Update(ctx, existing)
	if err != nil {
		return dom.Product{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

// Delete removes the product for id.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	removed, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return errs.NotFound("Product %d not found", id)
	}
	s.invalidateCache(ctx)
	return nil
}

// Search returns one page of products matching the conjunction of the
// supplied filters. Results are cached per filter/page combination.
func (s *ProductService) Search(ctx context.Context, f dom.ProductFilter, page dom.PageRequest) (dom.Page[dom.Product], error) {
	page = page.Normalize()
	if s.cache != nil {
		key := cache.SearchKey(f, page)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if cached, err := s.cache.GetSearch(ctx, f, page); err == nil && cached != nil {
				return *cached, nil
			}
			result, err := s.products.Search(ctx, f, page)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, f, page, result)
			return result, nil
		})
		if err != nil {
			return dom.Page[dom.Product]{}, err
		}
		return v.(dom.Page[dom.Product]), nil
	}
	return s.products.Search(ctx, f, page)
}

// IncreaseStock adds amount to the product's stock and persists the result.
func (s *ProductService) IncreaseStock(ctx context.Context, id int64, amount int) (dom.Product, error) {
	return s.applyStock(ctx, id, func(p *dom.Product) error {
		return p.IncreaseStock(amount)
	})
}

// DecreaseStock removes amount from the product's stock and persists the result.
func (s *ProductService) DecreaseStock(ctx context.Context, id int64, amount int) (dom.Product, error) {
	return s.applyStock(ctx, id, func(p *dom.Product) error {
		return p.DecreaseStock(amount)
	})
}

// SetStock replaces the product's stock and persists the result.
func (s *ProductService) SetStock(ctx context.Context, id int64, quantity int) (dom.Product, error) {
	return s.applyStock(ctx, id, func(p *dom.Product) error {
		return p.SetStock(quantity)
	})
}

// LowStock lists products with positive quantity under the restock threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]dom.Product, error) {
	return s.products.ListLowStock(ctx)
}

// Stats returns the product count and total inventory value.
func (s *ProductService) Stats(ctx context.Context) (int64, decimal.Decimal, error) {
	return s.products.Stats(ctx)
}

func (s *ProductService) applyStock(ctx context.Context, id int64, transition func(*dom.Product) error) (dom.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Product{}, err
	}
	if err := transition(&p); err != nil {
		return dom.Product{}, err
	}
	out, err := s.products.Update(ctx, p)
	if err != nil {
		return dom.Product{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

func (s *ProductService) resolveCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NotFound("Category %d not found", id)
		}
		return err
	}
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateSearch(ctx)
	}
}
