package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/storage-service/internal/api/http"
	"github.com/spec-kit/storage-service/internal/api/http/handlers"
	"github.com/spec-kit/storage-service/internal/auth"
	"github.com/spec-kit/storage-service/internal/config"
	"github.com/spec-kit/storage-service/internal/events"
	"github.com/spec-kit/storage-service/internal/observability"
	"github.com/spec-kit/storage-service/internal/persistence"
	"github.com/spec-kit/storage-service/internal/repository"
	"github.com/spec-kit/storage-service/internal/service"
	"github.com/spec-kit/storage-service/internal/worker"
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

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	searchRepo := repository.NewSearchQueryRepository(mongo.Collection(repository.SearchQueryCollection))
	statsRepo := repository.NewPluginStatsRepository(mongo.Collection(repository.PluginStatsCollection))

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	creds := auth.NewCredentialStore(cfg.Auth)
	throttle := auth.NewLoginThrottle(redis.Client, cfg.Throttle, logger)
	authService := service.NewAuthService(*cfg, creds, throttle)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	searchService := service.NewSearchStatsService(searchRepo, dispatcher)
	statsService := service.NewPluginStatsService(statsRepo, dispatcher)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{Prefork: cfg.App.Prefork})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis),
		Token:          handlers.NewTokenHandler(authService),
		Searches:       handlers.NewSearchesHandler(searchService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
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
