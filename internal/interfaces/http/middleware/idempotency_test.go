package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/ledger/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (failingStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (failingStore) Release(context.Context, string) error            { return nil }
func (failingStore) Close() error                                     { return nil }

func newIdempotentRouter(t *testing.T, store IdempotencyConfig, status *int) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.Use(RequestID(), Tenant(DefaultTenantConfig()), Idempotency(store))
	router.POST("/api/v1/payments", func(c *gin.Context) {
		c.Status(*status)
	})
	return router
}

func postWithKey(tenantID uuid.UUID, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	cfg := IdempotencyConfig{Store: store, TTL: time.Hour}
	tenantID := uuid.New()

	t.Run("replay is rejected", func(t *testing.T) {
		status := http.StatusCreated
		router := newIdempotentRouter(t, cfg, &status)

		w := serve(router, postWithKey(tenantID, "pay-1"))
		assert.Equal(t, http.StatusCreated, w.Code)

		w = serve(router, postWithKey(tenantID, "pay-1"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_DUPLICATE_REQUEST")
	})

	t.Run("keys are scoped per organization", func(t *testing.T) {
		status := http.StatusCreated
		router := newIdempotentRouter(t, cfg, &status)

		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(tenantID, "pay-2")).Code)
		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(uuid.New(), "pay-2")).Code)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		status := http.StatusUnprocessableEntity
		router := newIdempotentRouter(t, cfg, &status)

		assert.Equal(t, http.StatusUnprocessableEntity, serve(router, postWithKey(tenantID, "pay-3")).Code)

		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(tenantID, "pay-3")).Code)
	})

	t.Run("no header passes through", func(t *testing.T) {
		status := http.StatusCreated
		router := newIdempotentRouter(t, cfg, &status)

		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(tenantID, "")).Code)
		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(tenantID, "")).Code)
	})

	t.Run("oversized key is rejected", func(t *testing.T) {
		status := http.StatusCreated
		router := newIdempotentRouter(t, cfg, &status)

		w := serve(router, postWithKey(tenantID, strings.Repeat("k", 300)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIdempotency_StoreUnavailable(t *testing.T) {
	status := http.StatusCreated
	router := newIdempotentRouter(t, IdempotencyConfig{Store: failingStore{}}, &status)
	tenantID := uuid.New()

	require.Equal(t, http.StatusCreated, serve(router, postWithKey(tenantID, "k")).Code)
	assert.Equal(t, http.StatusCreated, serve(router, postWithKey(tenantID, "k")).Code)
}
