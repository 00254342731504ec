package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client chosen key of a create request
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds the stored key size
const maxIdempotencyKeyLength = 200

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store shared.IdempotencyStore
	TTL   time.Duration
}

// Idempotency claims the Idempotency-Key of a request before the handler runs.
// A replayed key is answered with 409. When the handler fails (status >= 400)
// the claim is released so the client can retry with the same key.
// Requests without the header pass through unchanged.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" || cfg.Store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidInput, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		scoped := idempotencyScope(c, key)

		claimed, err := cfg.Store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			// The store being down must not block writes
			log.Warn("Idempotency store unavailable, processing without claim", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				GetRequestID(c),
			))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cfg.Store.Release(ctx, scoped); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}

// idempotencyScope namespaces a key by organization and route
func idempotencyScope(c *gin.Context, key string) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.GetString(TenantIDKey) + ":" + c.Request.Method + ":" + route + ":" + key
}
