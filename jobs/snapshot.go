package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/utsav-books/utsav-books/internal/jobs"
	"github.com/utsav-books/utsav-books/internal/platform/blob"
)

// Snapshotter copies the four ledger files into a dated snapshot prefix so a
// bad overwrite can be recovered from the previous day's state.
type Snapshotter struct {
	store   blob.Store
	sources []string
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewSnapshotter builds a Snapshotter over the given source files.
func NewSnapshotter(store blob.Store, sources []string, logger *slog.Logger, metrics *jobmetrics.Metrics) *Snapshotter {
	return &Snapshotter{store: store, sources: sources, logger: logger, metrics: metrics}
}

// Handle processes TaskLedgerSnapshot tasks.
func (s *Snapshotter) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	date := payload.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	tracker := s.metrics.Track("ledger_snapshot")
	return tracker.End(s.Run(ctx, date))
}

// Run copies every source file that exists into snapshots/<date>/. A missing
// source is skipped, not an error; a blank ledger has nothing to preserve.
func (s *Snapshotter) Run(ctx context.Context, date string) error {
	for _, src := range s.sources {
		data, err := s.store.Read(ctx, src)
		if err != nil {
			if errors.Is(err, blob.ErrNotExist) {
				continue
			}
			return err
		}
		dst := "/snapshots/" + date + "/" + path.Base(src)
		if err := s.store.Write(ctx, dst, data); err != nil {
			return err
		}
		s.logger.Info("snapshot written", slog.String("source", src), slog.String("target", dst))
	}
	return nil
}
