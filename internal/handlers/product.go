package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	dom "inventory/internal/domain"
	"inventory/internal/dto"
	"inventory/internal/service"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List godoc
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Failure      500  {object}  map[string]string
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	list, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Items: productsToResponses(list)})
}

// GetByID godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(p))
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.ProductRequest  true  "Product body"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CategoryID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoryId is required"})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), service.CreateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		CategoryID:  *req.CategoryID,
		CreatedByID: req.CreatedByID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productToResponse(p))
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Product ID"
// @Param        body  body      dto.ProductRequest  true  "Product body"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, service.UpdateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(p))
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  int  true  "Product ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search godoc
// @Summary      Search products
// @Tags         products
// @Produce      json
// @Param        name        query  string  false  "Name substring, case-insensitive"
// @Param        categoryId  query  int     false  "Category ID"
// @Param        minPrice    query  number  false  "Inclusive lower price bound"
// @Param        maxPrice    query  number  false  "Inclusive upper price bound"
// @Param        page        query  int     false  "Zero-based page index"
// @Param        size        query  int     false  "Page size"
// @Param        sort        query  string  false  "Sort key (name, price, price_desc, quantity, created_at)"
// @Success      200  {object}  dto.ProductPageResponse
// @Failure      400  {object}  map[string]string
// @Router       /products/search [get]
func (h *ProductHandler) Search(c *gin.Context) {
	filter, page, ok := parseSearchQuery(c)
	if !ok {
		return
	}
	result, err := h.svc.Search(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductPageResponse{
		Items:      productsToResponses(result.Items),
		Page:       result.Page,
		Size:       result.Size,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// LowStock godoc
// @Summary      List low-stock products
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /products/low-stock [get]
func (h *ProductHandler) LowStock(c *gin.Context) {
	list, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Items: productsToResponses(list)})
}

// Stats godoc
// @Summary      Inventory summary
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /products/stats [get]
func (h *ProductHandler) Stats(c *gin.Context) {
	count, value, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{TotalProducts: count, InventoryValue: value})
}

// IncreaseStock godoc
// @Summary      Increase a product's stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int  true  "Product ID"
// @Param        body  body  dto.StockAmountRequest  true  "Amount"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id}/stock/increase [post]
func (h *ProductHandler) IncreaseStock(c *gin.Context) {
	h.stockAmountOp(c, h.svc.IncreaseStock)
}

// DecreaseStock godoc
// @Summary      Decrease a product's stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int  true  "Product ID"
// @Param        body  body  dto.StockAmountRequest  true  "Amount"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id}/stock/decrease [post]
func (h *ProductHandler) DecreaseStock(c *gin.Context) {
	h.stockAmountOp(c, h.svc.DecreaseStock)
}

// SetStock godoc
// @Summary      Set a product's stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int  true  "Product ID"
// @Param        body  body  dto.StockSetRequest  true  "Quantity"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id}/stock [put]
func (h *ProductHandler) SetStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.StockSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.SetStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(p))
}

func (h *ProductHandler) stockAmountOp(c *gin.Context, op func(ctx context.Context, id int64, amount int) (dom.Product, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.StockAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := op(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(p))
}

func parseSearchQuery(c *gin.Context) (dom.ProductFilter, dom.PageRequest, bool) {
	var filter dom.ProductFilter
	filter.Name = c.Query("name")

	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return filter, dom.PageRequest{}, false
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("minPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPrice"})
			return filter, dom.PageRequest{}, false
		}
		filter.MinPrice = &d
	}
	if raw := c.Query("maxPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice"})
			return filter, dom.PageRequest{}, false
		}
		filter.MaxPrice = &d
	}

	page := dom.PageRequest{
		Page: intQuery(c, "page", 0),
		Size: intQuery(c, "size", dom.DefaultPageSize),
		Sort: c.Query("sort"),
	}
	return filter, page, true
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func productToResponse(p dom.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		CreatedByID: p.CreatedByID,
	}
}

func productsToResponses(list []dom.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, len(list))
	for i := range list {
		out[i] = productToResponse(list[i])
	}
	return out
}
