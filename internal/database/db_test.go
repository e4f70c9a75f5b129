package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestGormLogger_Trace(t *testing.T) {
	log, logs := observed()
	l := NewGormLogger(log, 100*time.Millisecond)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	l.Trace(context.Background(), time.Now(), fc, nil)

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "query failed", entries[0].Message)
		assert.Equal(t, "slow query", entries[1].Message)
	}
}

func TestGormLogger_LogModeInfoTracesEveryQuery(t *testing.T) {
	log, logs := observed()
	l := NewGormLogger(log, time.Second).LogMode(gormlogger.Info)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Equal(t, 1, logs.FilterMessage("query").Len())
}

func TestGormLogger_Silent(t *testing.T) {
	log, logs := observed()
	l := NewGormLogger(log, time.Second).LogMode(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	l.Error(context.Background(), "x %d", 1)
	assert.Zero(t, logs.Len())
}

func TestOpenShiftIndexSQL(t *testing.T) {
	assert.Contains(t, OpenShiftIndexSQL, "CREATE UNIQUE INDEX IF NOT EXISTS")
	assert.Contains(t, OpenShiftIndexSQL, "attendances (employee_id)")
	assert.Contains(t, OpenShiftIndexSQL, "WHERE clock_out_at IS NULL")
}
