// Package postgres provides the PostgreSQL connection used to back the
// optional persistent dish catalog (spec.md §6: DishRepository is
// "consumed, not defined here"; Postgres is the production adapter,
// sqlite the dev/test one).
package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
)

// ConnectionManager owns the single GORM connection the dish repository
// adapter uses. The teacher's version additionally managed read replicas
// and a query-monitoring/index-optimizer pipeline sized for a multi-tenant
// recipe-sharing workload; the planner's dish catalog is a small,
// read-mostly seed table with no such scaling need, so this keeps only
// pool sizing and a slow-query log.
type ConnectionManager struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// NewConnectionManager opens the primary database connection and applies
// pool settings from cfg.Database.
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	gormLog := gormlogger.New(
		zapGormWriter{logger: log},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Info("postgres connection established",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	return &ConnectionManager{cfg: cfg, logger: log, db: db}, nil
}

// GetDB returns the underlying *gorm.DB for repository construction.
func (cm *ConnectionManager) GetDB() *gorm.DB { return cm.db }

// HealthCheck pings the connection, used by pkg/healthcheck's dependency
// checker (spec.md §4.0 ambient stack).
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	sqlDB, err := cm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (cm *ConnectionManager) Close() error {
	sqlDB, err := cm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// zapGormWriter adapts GORM's logger.Writer interface to zap, matching the
// teacher's GORMLogWriter without the query-monitor hook it fed.
type zapGormWriter struct {
	logger *zap.Logger
}

func (w zapGormWriter) Printf(format string, args ...interface{}) {
	w.logger.Sugar().Debugf(format, args...)
}
