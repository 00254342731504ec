package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.DELETE("/test", h.NoContent)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewDomainError(shared.CodeNotFound, "account not found"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"conflict", shared.ErrConflict, http.StatusConflict, dto.ErrCodeConflict},
		{"amount mismatch", shared.NewDomainError(shared.CodeAmountMismatch, "sum differs"), http.StatusUnprocessableEntity, dto.ErrCodeAmountMismatch},
		{"over allocation", shared.ErrOverAllocation, http.StatusUnprocessableEntity, dto.ErrCodeOverAllocation},
		{"has payments", shared.ErrInstallmentHasPayments, http.StatusUnprocessableEntity, dto.ErrCodeInstallmentHasPayments},
		{"invalid input", shared.NewDomainError(shared.CodeInvalidInput, "bad"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"wrapped", fmt.Errorf("save: %w", shared.NewDomainError(shared.CodeInvalidDueDate, "bad date")), http.StatusUnprocessableEntity, dto.ErrCodeInvalidDueDate},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerHandleError_HidesInternalMessage(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}

func TestBaseHandlerBindJSON(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required"`
	}

	tests := []struct {
		name     string
		payload  string
		wantOK   bool
		wantCode string
	}{
		{"valid", `{"name":"acme"}`, true, ""},
		{"missing field", `{}`, false, dto.ErrCodeValidation},
		{"malformed", `{"name":`, false, dto.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			c.Request.Header.Set("Content-Type", "application/json")

			var b body
			ok := h.BindJSON(c, &b)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "acme", b.Name)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2026-03-15T22:30:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDate("15/03/2026")
	assert.Error(t, err)
}
