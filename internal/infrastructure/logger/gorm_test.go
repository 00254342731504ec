package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var errSerialization = errors.New("could not serialize access")

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn,
		WithSlowThreshold(10*time.Millisecond),
		WithRetryableClassifier(func(err error) bool { return errors.Is(err, errSerialization) }),
	)

	ctx := context.WithValue(context.Background(), TenantIDKey, "tenant-a")
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), fc, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is ignored")

	gl.Trace(ctx, time.Now(), fc, errSerialization)
	gl.Trace(ctx, time.Now(), fc, errors.New("boom"))
	gl.Trace(ctx, time.Now().Add(-time.Second), fc, nil)

	all := logs.All()
	if assert.Len(t, all, 3) {
		assert.Equal(t, zapcore.WarnLevel, all[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, all[1].Level)
		assert.Equal(t, zapcore.WarnLevel, all[2].Level)
		assert.Equal(t, "tenant-a", all[1].ContextMap()["tenant_id"])
	}
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
}
