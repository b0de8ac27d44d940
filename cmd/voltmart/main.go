package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voltmart/voltmart/internal/app"
	"github.com/voltmart/voltmart/internal/auth"
	"github.com/voltmart/voltmart/internal/catalog/categories"
	"github.com/voltmart/voltmart/internal/catalog/products"
	"github.com/voltmart/voltmart/internal/observability"
	"github.com/voltmart/voltmart/internal/orders"
	"github.com/voltmart/voltmart/internal/platform/db"
	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
	"github.com/voltmart/voltmart/internal/uploads"
	"github.com/voltmart/voltmart/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	respond := httpx.NewResponder(cfg.IsDevelopment())
	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)

	usersRepo := users.NewRepository(dbpool)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	denylist := auth.NewDenylist(redisClient)
	authMiddleware := auth.NewMiddleware(logger, tokens, denylist, usersRepo, respond)
	authService := auth.NewService(logger, usersRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, authMiddleware, usersRepo, respond)

	adminOnly := func(next http.Handler) http.Handler {
		return authMiddleware.RequireUser(authMiddleware.RequireAdmin(next))
	}

	usersService := users.NewService(logger, usersRepo)
	usersHandler := users.NewHandler(logger, usersService, respond)

	categoriesRepo := categories.NewRepository(dbpool)
	categoriesService := categories.NewService(categoriesRepo)
	categoriesHandler := categories.NewHandler(logger, categoriesService, respond, adminOnly)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(logger, productsRepo, auditLogger)
	productsHandler := products.NewHandler(logger, productsService, respond, adminOnly)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(logger, ordersRepo, auditLogger, metrics)
	ordersHandler := orders.NewHandler(logger, ordersService, respond, authMiddleware.RequireAdmin)

	var uploadsHandler *uploads.Handler
	if cfg.BucketHost != "" && cfg.BucketName != "" {
		storage, err := uploads.NewStorage(ctx, uploads.BucketConfig{
			Host:            cfg.BucketHost,
			Name:            cfg.BucketName,
			Region:          cfg.BucketRegion,
			AccessKeyID:     cfg.BucketAccessKeyID,
			SecretAccessKey: cfg.BucketSecretAccessKey,
		})
		if err != nil {
			logger.Error("init bucket storage", slog.Any("error", err))
			os.Exit(1)
		}
		uploadsHandler = uploads.NewHandler(logger, storage, respond)
	} else {
		logger.Warn("bucket not configured, upload endpoints disabled")
	}

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthMiddleware:    authMiddleware,
		AuthHandler:       authHandler,
		UsersHandler:      usersHandler,
		CategoriesHandler: categoriesHandler,
		ProductsHandler:   productsHandler,
		OrdersHandler:     ordersHandler,
		UploadsHandler:    uploadsHandler,
		Metrics:           metrics,
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
