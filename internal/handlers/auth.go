package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dom "inventory/internal/domain"
	"inventory/internal/dto"
	"inventory/internal/errs"
	"inventory/internal/service"
)

// AuthHandler handles login, register and the login audit trail.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.LoginResponse
// @Failure      429   {object}  dto.LoginResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.LoginResponse{Message: "username and password are required"})
		return
	}
	result, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password, service.LoginMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		// Login failures keep the {message, token} shape; token stays null.
		c.JSON(statusFromKind(errs.KindOf(err)), dto.LoginResponse{Message: loginFailureMessage(err)})
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Message: result.Message, Token: &result.Token})
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Account details"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	})
}

// History godoc
// @Summary      Login attempts for a username
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        username  query  string  true   "Username"
// @Param        page      query  int     false  "Zero-based page index"
// @Param        size      query  int     false  "Page size"
// @Success      200  {object}  dto.LoginHistoryPageResponse
// @Failure      400  {object}  map[string]string
// @Router       /audit/logins [get]
func (h *AuthHandler) History(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	page := dom.PageRequest{
		Page: intQuery(c, "page", 0),
		Size: intQuery(c, "size", dom.DefaultPageSize),
	}
	result, err := h.svc.History(c.Request.Context(), username, page)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]dto.LoginHistoryResponse, len(result.Items))
	for i, rec := range result.Items {
		items[i] = dto.LoginHistoryResponse{
			ID:            rec.ID,
			UserID:        rec.UserID,
			Username:      rec.Username,
			IPAddress:     rec.IPAddress,
			UserAgent:     rec.UserAgent,
			IsSuccess:     rec.IsSuccess,
			FailureReason: string(rec.FailureReason),
			LoginTime:     rec.LoginTime,
		}
	}
	c.JSON(http.StatusOK, dto.LoginHistoryPageResponse{
		Items:      items,
		Page:       result.Page,
		Size:       result.Size,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// loginFailureMessage keeps classified auth messages verbatim and hides
// anything unclassified behind a generic message.
func loginFailureMessage(err error) string {
	if errs.KindOf(err) == errs.KindInternal {
		return "login failed"
	}
	return err.Error()
}
