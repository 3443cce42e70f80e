package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/app"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/insights"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/leftovers"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/loans"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/observability"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/orders"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/db"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/reviews"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
	"github.com/manaswi-siripurapu/SpiceRoute/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "spiceroute_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	profilesRepo := profiles.NewPGRepository(pool)
	profilesService := profiles.NewService(profilesRepo)
	profilesHandler := profiles.NewHandler(logger, profilesService)

	catalogRepo := catalog.NewPGRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, profilesService)

	ordersRepo := orders.NewPGRepository(pool)
	ordersService := orders.NewService(ordersRepo, profilesRepo)
	ordersHandler := orders.NewHandler(logger, ordersService)

	loansRepo := loans.NewPGRepository(pool)
	loansService := loans.NewService(loansRepo)
	loansHandler := loans.NewHandler(logger, loansService)

	reviewsRepo := reviews.NewPGRepository(pool)
	reviewsService := reviews.NewService(reviewsRepo, ordersRepo)
	reviewsHandler := reviews.NewHandler(logger, reviewsService)

	leftoversRepo := leftovers.NewPGRepository(pool)
	leftoversService := leftovers.NewService(leftoversRepo, profilesRepo)
	leftoversHandler := leftovers.NewHandler(logger, leftoversService)

	insightsRepo := insights.NewPGRepository(pool)
	insightsService := insights.NewService(insightsRepo, profilesService)
	insightsHandler := insights.NewHandler(logger, insightsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,

		ProfilesHandler:  profilesHandler,
		CatalogHandler:   catalogHandler,
		OrdersHandler:    ordersHandler,
		LoansHandler:     loansHandler,
		ReviewsHandler:   reviewsHandler,
		LeftoversHandler: leftoversHandler,
		InsightsHandler:  insightsHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
