package ledger

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Option configures a ledger service
type Option func(*settings)

type settings struct {
	now      func() time.Time
	location *time.Location
	logger   *zap.Logger
	metrics  *telemetry.LedgerMetrics
}

func newSettings(opts []Option) settings {
	s := settings{
		now:      time.Now,
		location: time.UTC,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock overrides the clock used to decide what "today" is
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the timezone whose calendar day counts as today
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics enables business metrics
func WithMetrics(m *telemetry.LedgerMetrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

func (s settings) today() time.Time {
	return ledger.Today(s.now(), s.location)
}

func (s settings) log(ctx context.Context) *zap.Logger {
	return logger.Ctx(ctx, s.logger)
}
