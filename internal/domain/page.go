package domain

import "github.com/shopspring/decimal"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest carries pagination parameters through to the repository
// unchanged. Page is zero-based. Sort is a column hint validated against a
// whitelist by the repository.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the request.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of results plus totals.
type Page[T any] struct {
	Items      []T
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

// NewPage builds a Page, deriving TotalPages from the totals.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// ProductFilter is a conjunction of optional search predicates; a nil/empty
// field imposes no constraint.
type ProductFilter struct {
	Name       string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}
