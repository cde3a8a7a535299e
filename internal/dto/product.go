package dto

import (
	"github.com/shopspring/decimal"
)

// ProductRequest is the JSON body for POST /products and PUT /products/:id.
// On update, createdById is ignored: creation provenance is immutable.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Quantity    int             `json:"quantity" binding:"gte=0"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"categoryId"`
	CreatedByID int64           `json:"createdById"`
}

// ProductResponse is the flat product record exposed on the wire.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"categoryId"`
	CreatedByID int64           `json:"createdById"`
}

// ProductListResponse wraps a plain list of products.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

// ProductPageResponse is one page of search results.
type ProductPageResponse struct {
	Items      []ProductResponse `json:"items"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalItems int64             `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
}

// StockAmountRequest is the body for stock increase/decrease operations.
type StockAmountRequest struct {
	Amount int `json:"amount"`
}

// StockSetRequest is the body for replacing a product's stock outright.
type StockSetRequest struct {
	Quantity int `json:"quantity"`
}

// StatsResponse summarizes the inventory.
type StatsResponse struct {
	TotalProducts  int64           `json:"totalProducts"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}
