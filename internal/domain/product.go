package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"inventory/internal/errs"
)

// Product field bounds. Enforced on every mutation and again before persist.
// Lengths count characters, not bytes.
const (
	ProductNameMinLen  = 3
	ProductNameMaxLen  = 100
	ProductDescMaxLen  = 500
	ProductMaxQuantity = 99999
	LowStockThreshold  = 10
)

var (
	ProductMinPrice = decimal.RequireFromString("0.01")
	ProductMaxPrice = decimal.RequireFromString("999999999.99")
)

// Product is the central aggregate: a catalog item with its stock count,
// its category and the user who created it.
type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Description string
	CategoryID  int64
	CreatedByID int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the field invariants. Called by the service before every
// insert and update.
func (p *Product) Validate() error {
	nameLen := utf8.RuneCountInString(strings.TrimSpace(p.Name))
	if nameLen < ProductNameMinLen || nameLen > ProductNameMaxLen {
		return errs.Validation("Product name must be between %d and %d characters", ProductNameMinLen, ProductNameMaxLen)
	}
	if p.Price.LessThan(ProductMinPrice) || p.Price.GreaterThan(ProductMaxPrice) {
		return errs.Validation("Price must be between %s and %s", ProductMinPrice, ProductMaxPrice)
	}
	if p.Quantity < 0 || p.Quantity > ProductMaxQuantity {
		return errs.Validation("Quantity must be between 0 and %d", ProductMaxQuantity)
	}
	if utf8.RuneCountInString(p.Description) > ProductDescMaxLen {
		return errs.Validation("Description must not exceed %d characters", ProductDescMaxLen)
	}
	return nil
}

// InStock reports whether any quantity is available.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// LowStock reports whether the quantity is positive but under the restock threshold.
func (p *Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity < LowStockThreshold
}

// OutOfStock reports whether nothing is available.
func (p *Product) OutOfStock() bool {
	return p.Quantity <= 0
}

// IncreaseStock adds amount to the quantity. The result may not exceed the
// maximum; persistence of the new quantity is the caller's responsibility.
func (p *Product) IncreaseStock(amount int) error {
	if amount < 0 {
		return errs.InvalidArgument("Amount cannot be negative")
	}
	if p.Quantity+amount > ProductMaxQuantity {
		return errs.InvalidArgument("Stock cannot exceed %d", ProductMaxQuantity)
	}
	p.Quantity += amount
	return nil
}

// DecreaseStock removes amount from the quantity. Fails without mutating when
// more is requested than is available.
func (p *Product) DecreaseStock(amount int) error {
	if amount < 0 {
		return errs.InvalidArgument("Amount cannot be negative")
	}
	if amount > p.Quantity {
		return errs.InvalidArgument("Insufficient stock. Available: %d", p.Quantity)
	}
	p.Quantity -= amount
	return nil
}

// SetStock replaces the quantity outright.
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return errs.InvalidArgument("Quantity cannot be negative")
	}
	if quantity > ProductMaxQuantity {
		return errs.InvalidArgument("Stock cannot exceed %d", ProductMaxQuantity)
	}
	p.Quantity = quantity
	return nil
}
