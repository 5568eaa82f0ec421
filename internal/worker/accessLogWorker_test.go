package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/shortlinks/internal/storage"
	"github.com/atinyakov/shortlinks/internal/worker"
)

type MockRepo struct {
	mu     sync.Mutex
	Calls  [][]storage.AccessLogEntry
	FailOn int
}

func (m *MockRepo) AppendAccessLogs(_ context.Context, entries []storage.AccessLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, append([]storage.AccessLogEntry(nil), entries...))
	if len(m.Calls) == m.FailOn {
		return errors.New("forced failure")
	}
	return nil
}

func (m *MockRepo) calls() [][]storage.AccessLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]storage.AccessLogEntry(nil), m.Calls...)
}

func entry() storage.AccessLogEntry {
	return storage.AccessLogEntry{ID: uuid.New(), LinkID: uuid.New(), IPAddress: "127.0.0.1"}
}

func start(t *testing.T, w *worker.AccessLogWorker) (cancel func(), done <-chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(ch)
	}()
	t.Cleanup(func() {
		cancel()
		<-ch
	})
	return cancel, ch
}

func TestRun_BatchTrigger(t *testing.T) {
	repo := &MockRepo{}
	w := worker.NewAccessLogWorker(zap.NewNop(), repo, worker.WithFlushInterval(time.Hour))
	start(t, w)

	for i := 0; i < worker.DefaultBatchSize; i++ {
		w.In() <- entry()
	}

	require.Eventually(t, func() bool { return len(repo.calls()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Len(t, repo.calls()[0], worker.DefaultBatchSize)
}

func TestRun_TimerTrigger(t *testing.T) {
	repo := &MockRepo{}
	w := worker.NewAccessLogWorker(zap.NewNop(), repo, worker.WithFlushInterval(20*time.Millisecond))
	start(t, w)

	w.In() <- entry()
	w.In() <- entry()

	require.Eventually(t, func() bool {
		calls := repo.calls()
		return len(calls) == 1 && len(calls[0]) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestRun_FlushesOnShutdown(t *testing.T) {
	repo := &MockRepo{}
	w := worker.NewAccessLogWorker(zap.NewNop(), repo,
		worker.WithFlushInterval(time.Hour),
		worker.WithQueueSize(8),
	)

	for i := 0; i < 3; i++ {
		w.In() <- entry()
	}

	cancel, done := start(t, w)
	cancel()
	<-done

	calls := repo.calls()
	require.NotEmpty(t, calls)
	total := 0
	for _, c := range calls {
		total += len(c)
	}
	assert.Equal(t, 3, total)
}

func TestRun_ErrorDropsBatch(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	repo := &MockRepo{FailOn: 1}
	w := worker.NewAccessLogWorker(zap.New(core), repo,
		worker.WithFlushInterval(time.Hour),
		worker.WithBatchSize(2),
	)
	start(t, w)

	for i := 0; i < 4; i++ {
		w.In() <- entry()
	}

	require.Eventually(t, func() bool { return len(repo.calls()) == 2 }, time.Second, 10*time.Millisecond)
	calls := repo.calls()
	assert.Len(t, calls[0], 2)
	assert.Len(t, calls[1], 2)
	assert.NotEqual(t, calls[0][0].ID, calls[1][0].ID)
	assert.Equal(t, 1, logs.FilterMessage("cannot replay access logs, batch dropped").Len())
}
