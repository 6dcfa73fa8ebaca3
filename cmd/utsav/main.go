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

	"github.com/utsav-books/utsav-books/internal/app"
	"github.com/utsav-books/utsav-books/internal/auth"
	"github.com/utsav-books/utsav-books/internal/debit"
	"github.com/utsav-books/utsav-books/internal/ledger"
	"github.com/utsav-books/utsav-books/internal/observability"
	"github.com/utsav-books/utsav-books/internal/platform/blob"
	"github.com/utsav-books/utsav-books/internal/platform/cache"
	"github.com/utsav-books/utsav-books/internal/summary"
	"github.com/utsav-books/utsav-books/jobs"
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

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		runJobsCommand(ctx, logger, cfg.RedisAddr, os.Args[2:])
		return
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, snapshot cache and operator sessions disabled", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	var store blob.Store
	if cfg.BlobAccessKey != "" {
		s3, err := blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:  cfg.BlobEndpoint,
			Region:    cfg.BlobRegion,
			AccessKey: cfg.BlobAccessKey,
			SecretKey: cfg.BlobSecretKey,
			Bucket:    cfg.BlobBucket,
		})
		if err != nil {
			logger.Error("connect blob store", slog.Any("error", err))
			os.Exit(1)
		}
		store = s3
	} else {
		logger.Warn("no blob credentials, using in-memory store")
		store = blob.NewMemStore()
	}

	var snapshotCache *ledger.SnapshotCache
	if redisClient != nil {
		snapshotCache = ledger.NewSnapshotCache(redisClient, cfg.CacheTTL)
	}

	metrics := observability.NewMetrics()

	ledgerRepo := ledger.NewRepository(store, ledger.DefaultPaths, snapshotCache)
	ledgerRepo.OnWrite(metrics.LedgerWrite)
	if err := ledgerRepo.Ensure(ctx); err != nil {
		logger.Error("seed ledger files", slog.Any("error", err))
		os.Exit(1)
	}
	ledgerService := ledger.NewService(ledgerRepo)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	debitRepo := debit.NewRepository(store, debit.DefaultPath)
	if err := debitRepo.Ensure(ctx); err != nil {
		logger.Error("seed debit log", slog.Any("error", err))
		os.Exit(1)
	}
	debitService := debit.NewService(debitRepo)
	debitHandler := debit.NewHandler(logger, debitService)

	summaryService := summary.NewService(ledgerService, debitService)
	summaryHandler := summary.NewHandler(logger, summaryService)

	authService, err := auth.NewService(cfg.OperatorPassword)
	if err != nil {
		logger.Error("hash operator password", slog.Any("error", err))
		os.Exit(1)
	}
	sessions := auth.NewSessionManager(redisClient, "utsav_session", cfg.SessionTTL, cfg.IsProduction())
	authHandler := auth.NewHandler(logger, authService, sessions)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Sessions:       sessions,
		AuthHandler:    authHandler,
		LedgerHandler:  ledgerHandler,
		DebitHandler:   debitHandler,
		SummaryHandler: summaryHandler,
		JobsHandler:    jobsHandler,
		Metrics:        metrics,
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
