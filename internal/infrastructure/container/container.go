// Package container wires the planner core's dependencies using Uber FX
// (spec.md §4.10 domain stack): config, logger, the dish repository (GORM
// over Postgres or SQLite), the Redis-backed catalog cache, the
// heuristic solver, and planner.Service itself. cmd/planner's runApp
// starts Module, and a host application can equally fx.New(container.Module)
// into its own process.
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/alchemorsel/mealplanner/internal/application/planner"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	gormrepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/monitoring"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/solver"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/healthcheck"
	"github.com/alchemorsel/mealplanner/pkg/logger"
)

// Module wires every infrastructure dependency the planner service needs,
// the way the teacher's Module composed config/logger/db/repository/
// service fx.Options blocks.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	MonitoringModule,
	ServiceModule,
	HealthCheckModule,
)

// MonitoringModule provides the Prometheus registry/collectors and the
// otel tracer the planner's six solving phases (spec.md §5) are reported
// through. The tracer is a usable no-op when tracing is disabled by
// config; Metrics is always built against its own registry. Either way
// ServiceModule never needs a nil check.
var MonitoringModule = fx.Provide(
	func() *monitoring.Metrics {
		return monitoring.NewMetrics(prometheus.NewRegistry())
	},
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) { return config.Load("") },
)

// LoggerModule provides the zap logger every component is constructed
// with (spec.md §4.0).
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM connection backing DishRepository:
// Postgres in production, SQLite for local/dev/tests (§4.10).
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		if cfg.Database.Driver == "postgres" {
			cm, err := postgres.NewConnectionManager(cfg, log)
			if err != nil {
				return nil, fmt.Errorf("connect postgres: %w", err)
			}
			db := cm.GetDB()
			if cfg.Database.AutoMigrate {
				if err := gormrepo.AutoMigrate(db); err != nil {
					log.Warn("auto-migrate failed", zap.Error(err))
				}
			}
			return db, nil
		}

		db, err := sqlite.SetupDatabase(cfg.Database.SQLitePath, sqliteLogLevel(cfg))
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		return db, nil
	},
)

// CacheModule provides the Redis-backed CacheRepository, or a no-op one
// when Redis is unreachable. No other provider in Module consumes it.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
			PoolSize: cfg.Redis.PoolSize,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
			return redisrepo.NewNoopCacheRepository(), nil
		}
		return redisrepo.NewCacheRepository(client, cfg.Redis.DefaultTTL, log), nil
	},
)

// RepositoryModule provides the dish catalog repository.
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormrepo.NewDishRepository,
		fx.As(new(outbound.DishRepository)),
	),
)

// ServiceModule provides the solver backend, the event publisher, and
// planner.Service itself (the PlannerService implementation).
var ServiceModule = fx.Provide(
	func(log *zap.Logger) outbound.SolverBackend {
		return solver.NewHeuristic(log)
	},
	func(log *zap.Logger) outbound.EventPublisher {
		return loggingEventPublisher{logger: log}
	},
	fx.Annotate(
		func(repo outbound.DishRepository, sb outbound.SolverBackend, ep outbound.EventPublisher, log *zap.Logger, metrics *monitoring.Metrics, tracer *monitoring.TracingProvider) inbound.PlannerService {
			svc := planner.NewService(repo, sb, ep, log)
			return svc.WithPhaseObserver(phaseObserver(metrics, tracer))
		},
		fx.As(new(inbound.PlannerService)),
	),
)

// phaseObserver fans a planner.Phase boundary out to both the Prometheus
// duration histogram and an otel span per solve, so neither collector
// needs to know about the other.
func phaseObserver(metrics *monitoring.Metrics, tracer *monitoring.TracingProvider) planner.PhaseObserver {
	return func(phase planner.Phase, elapsed time.Duration) {
		metrics.ObservePhase(string(phase), elapsed.Seconds())
		_, span := tracer.StartPhaseSpan(context.Background(), "", string(phase))
		span.End()
	}
}

// HealthCheckModule provides pkg/healthcheck's generic dependency checker
// (spec.md §4.0 ambient stack is carried regardless of the Non-goals
// excluding observability surfaces elsewhere). It registers no checks
// itself; RegisterHealthChecks attaches the catalog database check, and
// Module does not invoke it.
var HealthCheckModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
)

// RegisterHealthChecks attaches the database checker once the *gorm.DB
// and *healthcheck.HealthCheck are both available.
func RegisterHealthChecks(hc *healthcheck.HealthCheck, db *gorm.DB) {
	hc.Register("database", healthcheck.NewCustomChecker("database", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		sqlDB, err := db.DB()
		if err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), nil
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), nil
		}
		return healthcheck.StatusHealthy, "catalog database reachable", nil
	}))
}

func sqliteLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.App.Debug {
		return gormlogger.Info
	}
	return gormlogger.Silent
}

// loggingEventPublisher is the simplest outbound.EventPublisher: it logs
// plan lifecycle events (spec.md §3 "every result is ephemeral") rather
// than persisting or forwarding them anywhere, since nothing in this
// system subscribes to them.
type loggingEventPublisher struct {
	logger *zap.Logger
}

func (p loggingEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	p.logger.Info("domain event", zap.String("event", event.EventName()), zap.Time("occurred_at", event.OccurredAt()))
	return nil
}
