// Package worker replays access log writes that failed on the redirect path.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/storage"
)

const (
	DefaultFlushInterval = 10 * time.Second
	DefaultBatchSize     = 25
	DefaultQueueSize     = 1024
)

type Repo interface {
	AppendAccessLogs(context.Context, []storage.AccessLogEntry) error
}

type AccessLogWorker struct {
	in        chan storage.AccessLogEntry
	logger    *zap.Logger
	repo      Repo
	interval  time.Duration
	batchSize int
}

type Option func(*AccessLogWorker)

func WithFlushInterval(d time.Duration) Option {
	return func(w *AccessLogWorker) { w.interval = d }
}

func WithBatchSize(n int) Option {
	return func(w *AccessLogWorker) { w.batchSize = n }
}

func WithQueueSize(n int) Option {
	return func(w *AccessLogWorker) { w.in = make(chan storage.AccessLogEntry, n) }
}

func NewAccessLogWorker(logger *zap.Logger, repo Repo, opts ...Option) *AccessLogWorker {
	w := &AccessLogWorker{
		in:        make(chan storage.AccessLogEntry, DefaultQueueSize),
		logger:    logger,
		repo:      repo,
		interval:  DefaultFlushInterval,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// In is handed to the link service as its retry queue.
func (w *AccessLogWorker) In() chan<- storage.AccessLogEntry {
	return w.in
}

// Run batches queued entries and writes them every interval or once
// batchSize entries are pending. Pending entries are flushed when ctx ends.
func (w *AccessLogWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var pending []storage.AccessLogEntry

	flush := func() {
		if len(pending) == 0 {
			return
		}
		w.logger.Debug("flushing access log retries", zap.Int("count", len(pending)))

		fctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := w.repo.AppendAccessLogs(fctx, pending); err != nil {
			w.logger.Error("cannot replay access logs, batch dropped",
				zap.Int("count", len(pending)),
				zap.Error(err),
			)
		}
		pending = pending[:0]
	}

	for {
		select {
		case entry := <-w.in:
			pending = append(pending, entry)
			if len(pending) >= w.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			// drain what is already queued
			for {
				select {
				case entry := <-w.in:
					pending = append(pending, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}
