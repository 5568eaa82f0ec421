package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.Inc(URLsCreatedTotal, Labels{"user_type": "anonymous"})
	r.Inc(URLsCreatedTotal, Labels{"user_type": "anonymous"})
	r.Inc(URLsCreatedTotal, Labels{"user_type": "authenticated"})
	r.Add(URLsAccessedTotal, nil, 5)

	assert.Equal(t, int64(2), r.Counter(URLsCreatedTotal, Labels{"user_type": "anonymous"}))
	assert.Equal(t, int64(1), r.Counter(URLsCreatedTotal, Labels{"user_type": "authenticated"}))
	assert.Equal(t, int64(5), r.Counter(URLsAccessedTotal, nil))
	assert.Zero(t, r.Counter(ErrorsTotal, nil))

	snap := r.Snapshot()
	assert.Equal(t, int64(2), snap.Counters[`urls_created_total{user_type="anonymous"}`])
	assert.Equal(t, int64(5), snap.Counters["urls_accessed_total"])
}

func TestRegistry_LabelOrderIsStable(t *testing.T) {
	r := NewRegistry()

	r.Inc(HTTPRequestsTotal, Labels{"method": "GET", "path": "/health", "status": "200"})
	r.Inc(HTTPRequestsTotal, Labels{"status": "200", "path": "/health", "method": "GET"})

	snap := r.Snapshot()
	require.Len(t, snap.Counters, 1)
	assert.Equal(t, int64(2), snap.Counters[`http_requests_total{method="GET",path="/health",status="200"}`])
}

func TestRegistry_Histogram(t *testing.T) {
	r := NewRegistry()
	labels := Labels{"method": "GET", "path": "/shorten/{shortCode}"}

	for _, v := range []float64{4, 10, 1} {
		r.Observe(HTTPRequestDurationMs, labels, v)
	}

	h := r.Snapshot().Histograms[`http_request_duration_ms{method="GET",path="/shorten/{shortCode}"}`]
	assert.Equal(t, int64(3), h.Count)
	assert.InDelta(t, 15.0, h.Sum, 1e-9)
	assert.InDelta(t, 1.0, h.Min, 1e-9)
	assert.InDelta(t, 10.0, h.Max, 1e-9)
	assert.InDelta(t, 5.0, h.Avg, 1e-9)
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := NewRegistry()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	r.Inc(ErrorsTotal, nil)
	snap := r.Snapshot()
	r.Inc(ErrorsTotal, nil)

	assert.Equal(t, int64(1), snap.Counters[ErrorsTotal])
	assert.Equal(t, fixed, snap.Timestamp)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Inc(URLsAccessedTotal, nil)
				r.Observe(HTTPRequestDurationMs, nil, 1)
			}
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, int64(5000), snap.Counters[URLsAccessedTotal])
	assert.Equal(t, int64(5000), snap.Histograms[HTTPRequestDurationMs].Count)
}
