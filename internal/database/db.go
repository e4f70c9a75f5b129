package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bms/internal/access"
	"bms/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenShiftIndexSQL allows at most one attendance row without a clock-out per employee.
// The row lock in FindOpenForUpdate cannot cover the case where no open shift exists yet.
const OpenShiftIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_attendances_open_shift
	ON attendances (employee_id) WHERE clock_out_at IS NULL`

// NewConnection opens the postgres pool, migrates the schema and seeds the built-in roles.
func NewConnection(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(log, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Department{},
		&model.ProductType{},
		&model.CustomerType{},
		&model.Outlet{},
		&model.Employee{},
		&model.Product{},
		&model.DualPricing{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Attendance{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Warn("failed to auto-migrate models", zap.Error(err))
	}

	if err := db.Exec(OpenShiftIndexSQL).Error; err != nil {
		return nil, fmt.Errorf("create open shift index: %w", err)
	}

	if err := SeedRoles(context.Background(), db); err != nil {
		return nil, fmt.Errorf("seed roles: %w", err)
	}

	return db, nil
}

// SeedRoles makes sure every built-in role exists and is flagged as a system role.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	for _, r := range access.Roles {
		role := model.Role{Name: string(r), IsSystem: true}
		err := db.WithContext(ctx).
			Where(model.Role{Name: string(r)}).
			Attrs(model.Role{Description: "Built-in " + string(r) + " role"}).
			Assign(map[string]any{"is_system": true}).
			FirstOrCreate(&role).Error
		if err != nil {
			return err
		}
	}
	return nil
}

type gormLogger struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger routes GORM's query and error logs through zap.
func NewGormLogger(log *zap.Logger, slowThreshold time.Duration) gormlogger.Interface {
	return &gormLogger{
		log:           log.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error("query failed", zap.Error(err), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn("slow query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug("query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	}
}
