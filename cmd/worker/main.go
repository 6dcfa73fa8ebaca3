package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/utsav-books/utsav-books/internal/app"
	"github.com/utsav-books/utsav-books/internal/debit"
	jobmetrics "github.com/utsav-books/utsav-books/internal/jobs"
	"github.com/utsav-books/utsav-books/internal/ledger"
	"github.com/utsav-books/utsav-books/internal/platform/blob"
	"github.com/utsav-books/utsav-books/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	store, err := blob.NewS3Store(ctx, blob.S3Config{
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

	metrics := jobmetrics.NewMetrics(nil)
	snapshotter := jobs.NewSnapshotter(store, []string{
		ledger.DefaultPaths.Credits,
		ledger.DefaultPaths.Dues,
		ledger.DefaultPaths.Collections,
		debit.DefaultPath,
	}, logger, metrics)

	nightlyTask, err := jobs.NewSnapshotTask(jobs.SnapshotPayload{})
	if err != nil {
		logger.Error("build snapshot task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Snapshotter: snapshotter,
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: nightlyTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
