package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/mall-service/internal/api/http"
	"github.com/spec-kit/mall-service/internal/api/http/handlers"
	"github.com/spec-kit/mall-service/internal/auth"
	"github.com/spec-kit/mall-service/internal/cache"
	"github.com/spec-kit/mall-service/internal/config"
	"github.com/spec-kit/mall-service/internal/events"
	"github.com/spec-kit/mall-service/internal/observability"
	"github.com/spec-kit/mall-service/internal/persistence"
	"github.com/spec-kit/mall-service/internal/repository"
	"github.com/spec-kit/mall-service/internal/service"
	"github.com/spec-kit/mall-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	tokenCache := cache.New(cfg.TokenCache, metrics)
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	sessionStore := auth.NewRedisSessionStore(redis.Client)
	sessions := auth.NewSessionManager(sessionStore, cfg.Session.Secret, cfg.Session.TTL())
	sessionMiddleware := auth.NewSessionMiddleware(sessions, userRepo)

	userService := service.NewUserService(cfg.Auth, userRepo, tokenCache, dispatcher)
	categoryService := service.NewCategoryService(categoryRepo, dispatcher, logger)
	productService := service.NewProductService(productRepo, dispatcher)
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(userService, sessions)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            healthHandler,
		Users:             usersHandler,
		Categories:        categoryHandler,
		Products:          productHandler,
		SessionMiddleware: sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
