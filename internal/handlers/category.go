package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dom "inventory/internal/domain"
	"inventory/internal/dto"
	"inventory/internal/service"
)

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List godoc
// @Summary      List all categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.CategoryListResponse
// @Failure      500  {object}  map[string]string
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryListResponse{Items: categoriesToResponses(list)})
}

func categoriesToResponses(list []dom.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, len(list))
	for i := range list {
		out[i] = dto.CategoryResponse{ID: list[i].ID, Name: list[i].Name}
	}
	return out
}
