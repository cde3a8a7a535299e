package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inventory/internal/errs"
)

// statusFromKind is the total mapping from error kinds to HTTP status codes.
// No handler classifies errors by message text.
func statusFromKind(k errs.Kind) int {
	switch k {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindValidation, errs.KindInvalidArgument:
		return http.StatusBadRequest
	case errs.KindInvalidCredentials, errs.KindAccountDisabled:
		return http.StatusUnauthorized
	case errs.KindTooManyAttempts:
		return http.StatusTooManyRequests
	case errs.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFromKind(errs.KindOf(err))
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
