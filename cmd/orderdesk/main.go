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
	"golang.org/x/sync/errgroup"

	"github.com/orderdesk/orderdesk/internal/app"
	"github.com/orderdesk/orderdesk/internal/auth"
	"github.com/orderdesk/orderdesk/internal/items"
	"github.com/orderdesk/orderdesk/internal/observability"
	"github.com/orderdesk/orderdesk/internal/orders"
	"github.com/orderdesk/orderdesk/internal/platform/cache"
	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
	"github.com/orderdesk/orderdesk/internal/stock"
	"github.com/orderdesk/orderdesk/jobs"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL)
	authRepo := auth.NewRepository()
	authService := auth.NewService(logger, authRepo, pool, issuer, cfg.RefreshTTL)
	authHandler := auth.NewHandler(logger, authService, issuer)

	itemRepo := items.NewRepository()
	stockRepo := stock.NewRepository()
	orderRepo := orders.NewRepository()
	orderItemRepo := orders.NewOrderItemRepository()

	itemUOWF := items.NewUnitOfWorkFactory(pool, itemRepo, stockRepo)
	itemService := items.NewService(logger, itemUOWF, itemRepo, pool, auditLogger)
	itemHandler := items.NewHandler(logger, itemService)

	stockService := stock.NewService(logger, pool, stockRepo)
	stockHandler := stock.NewHandler(logger, stockService)

	orderUOWF := orders.NewUnitOfWorkFactory(pool, orderRepo, orderItemRepo, stockRepo)
	orderService := orders.NewService(logger, orderUOWF, orderRepo, pool, idempotencyStore, metrics, auditLogger)
	orderHandler := orders.NewHandler(logger, orderService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		TokenIssuer:  issuer,
		AuthHandler:  authHandler,
		ItemHandler:  itemHandler,
		StockHandler: stockHandler,
		OrderHandler: orderHandler,
		JobHandler:   jobHandler,
		Pool:         pool,
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
