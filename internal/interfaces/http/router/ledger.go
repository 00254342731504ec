package router

import (
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the endpoints served under /api/v1
type Handlers struct {
	Accounts   *handler.AccountHandler
	Payments   *handler.PaymentHandler
	References *handler.ReferenceHandler
	Reports    *handler.ReportHandler
	System     *handler.SystemHandler
}

// EngineConfig configures NewEngine
type EngineConfig struct {
	Logger      *zap.Logger
	HTTP        config.HTTPConfig
	Tracing     middleware.TracingConfig
	Meter       metric.Meter
	Idempotency middleware.IdempotencyConfig
}

// LedgerGroups returns the account, payment, reference and report routes.
// idempotent guards the create endpoints.
func LedgerGroups(h Handlers, idempotent gin.HandlerFunc) []*DomainGroup {
	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.POST("", idempotent, h.Accounts.Create).
		GET("", h.Accounts.List).
		GET("/:id", h.Accounts.Get).
		DELETE("/:id", h.Accounts.Delete).
		PATCH("/:id/installments/:installmentId", h.Accounts.UpdateInstallment).
		DELETE("/:id/installments/:installmentId", h.Accounts.DeleteInstallment)

	payments := NewDomainGroup("payments", "/payments")
	payments.POST("", idempotent, h.Payments.Create).
		POST("/quick", idempotent, h.Payments.QuickPay).
		GET("/:id", h.Payments.Get).
		PATCH("/:id", h.Payments.Update).
		DELETE("/:id", h.Payments.Delete)

	references := NewDomainGroup("references", "/references")
	references.POST("/:kind", idempotent, h.References.Create).
		GET("/:kind", h.References.List).
		GET("/:kind/:id", h.References.Get).
		DELETE("/:kind/:id", h.References.Delete)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/installments", h.Reports.InstallmentSummary)

	return []*DomainGroup{accounts, payments, references, reports}
}

// NewEngine builds the gin engine with the global middleware stack, the
// health endpoints and the tenant scoped /api/v1 routes
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
	if err != nil {
		return nil, err
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	// Order: request id, recovery, access log, tracing, metrics, headers, body limit
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(cfg.Tracing),
		httpMetrics,
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	if h.System != nil {
		engine.GET("/health", h.System.Health)
		engine.GET("/system/info", h.System.GetSystemInfo)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.Tenant(middleware.DefaultTenantConfig()), middleware.SpanEnricher())
	for _, g := range LedgerGroups(h, middleware.Idempotency(cfg.Idempotency)) {
		r.Register(g)
	}
	r.Setup()

	return engine, nil
}
