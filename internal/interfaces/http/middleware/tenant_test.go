package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTenant(t *testing.T) {
	tenantID := uuid.New()

	router := gin.New()
	router.Use(RequestID(), Tenant(DefaultTenantConfig()))
	router.GET("/api/v1/accounts", func(c *gin.Context) {
		assert.Equal(t, tenantID.String(), logger.GetTenantID(c.Request.Context()))
		c.String(http.StatusOK, GetTenantUUID(c).String())
	})
	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	t.Run("accepts a uuid header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID.String(), w.Body.String())
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a uuid", "acme"},
		{"nil uuid", uuid.Nil.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeaderKey, tt.header)
			}
			w := serve(router, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "ERR_TENANT_REQUIRED")
		})
	}

	t.Run("skips health", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetTenantUUID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetTenantUUID(c))
}
