package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/config-manager/internal/api/http"
	"github.com/spec-kit/config-manager/internal/api/http/handlers"
	"github.com/spec-kit/config-manager/internal/auth"
	"github.com/spec-kit/config-manager/internal/config"
	"github.com/spec-kit/config-manager/internal/events"
	"github.com/spec-kit/config-manager/internal/observability"
	"github.com/spec-kit/config-manager/internal/persistence"
	"github.com/spec-kit/config-manager/internal/repository"
	"github.com/spec-kit/config-manager/internal/service"
	"github.com/spec-kit/config-manager/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.App.Env == "development" && cfg.Auth.JWTSecret == "dev-secret" {
		logger.Warn("using development JWT secret; set AUTH_JWT_SECRET")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts, deps, closeStore := openAccountStore(ctx, *cfg, logger)
	defer closeStore()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: accounts,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	if cfg.Seed.AccountsPath != "" {
		created, err := authService.SeedAccounts(ctx, cfg.Seed.AccountsPath)
		if err != nil {
			logger.Fatal("failed to seed accounts", zap.Error(err))
		}
		logger.Info("seeded accounts", zap.Int("created", created), zap.String("path", cfg.Seed.AccountsPath))
	}

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:  logger,
		Metrics: metrics,
		Timeout: cfg.App.RequestTimeout(),
		CORS:    cfg.CORS,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:           handlers.NewAuthHandler(authService),
		Analytics:      handlers.NewAnalyticsHandler(service.NewStaticAnalyticsProvider()),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Backend))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// openAccountStore builds the configured directory backend along with the
// dependencies the readiness probe should ping.
func openAccountStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.AccountRepository, map[string]handlers.Pinger, func()) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.DB(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		return repository.NewPostgresAccountRepository(pg.DB()),
			map[string]handlers.Pinger{"postgres": pg},
			pg.Close
	case config.BackendRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		return repository.NewRedisAccountRepository(rdb.Client),
			map[string]handlers.Pinger{"redis": rdb},
			rdb.Close
	default:
		return repository.NewMemoryAccountRepository(), nil, func() {}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
