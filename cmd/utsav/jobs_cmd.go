package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/utsav-books/utsav-books/cmd/utsav/cli"
)

// runJobsCommand handles `utsav jobs <subcommand>` for manual queue management.
func runJobsCommand(ctx context.Context, logger *slog.Logger, redisAddr string, args []string) {
	jobsCLI, err := cli.NewJobsCLI(redisAddr)
	if err != nil {
		logger.Error("init jobs cli", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsCLI.Close(); err != nil {
			logger.Warn("close jobs cli", slog.Any("error", err))
		}
	}()

	sub := "inspect"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "snapshot":
		date := ""
		if len(args) > 1 {
			date = args[1]
		}
		info, err := jobsCLI.TriggerSnapshot(ctx, date)
		if err != nil {
			logger.Error("enqueue snapshot", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("snapshot enqueued", slog.String("task_id", info.ID))
	case "inspect":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			logger.Error("inspect queue", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("queue state",
			slog.String("queue", stats.Queue),
			slog.Int("pending", stats.Pending),
			slog.Int("active", stats.Active),
			slog.Int("scheduled", stats.Scheduled),
			slog.Int("retry", stats.Retry))
	default:
		logger.Error("unknown jobs subcommand", slog.String("subcommand", sub))
		os.Exit(1)
	}
}
