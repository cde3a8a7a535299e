package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"inventory/internal/errs"
)

func TestStatusFromKind(t *testing.T) {
	cases := map[errs.Kind]int{
		errs.KindNotFound:           http.StatusNotFound,
		errs.KindValidation:         http.StatusBadRequest,
		errs.KindInvalidArgument:    http.StatusBadRequest,
		errs.KindInvalidCredentials: http.StatusUnauthorized,
		errs.KindAccountDisabled:    http.StatusUnauthorized,
		errs.KindTooManyAttempts:    http.StatusTooManyRequests,
		errs.KindConflict:           http.StatusConflict,
		errs.KindInternal:           http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, statusFromKind(kind))
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestRespondErrorKeepsClassifiedMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errs.NotFound("Product %d not found", 9))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product 9 not found"}`, w.Body.String())
}
