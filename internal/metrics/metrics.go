// Package metrics keeps process-wide counters and latency histograms and
// renders them as a JSON snapshot for the /metrics endpoint.
package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric names recorded by the service.
const (
	HTTPRequestsTotal      = "http_requests_total"
	HTTPRequestDurationMs  = "http_request_duration_ms"
	URLsCreatedTotal       = "urls_created_total"
	URLsAccessedTotal      = "urls_accessed_total"
	CodeCollisionsTotal    = "code_collisions_total"
	AccessLogFailuresTotal = "access_log_failures_total"
	ErrorsTotal            = "errors_total"
)

// Labels are attached to a sample. Keys are rendered sorted.
type Labels map[string]string

type histogram struct {
	count int64
	sum   float64
	min   float64
	max   float64
}

// HistogramSnapshot is the exported view of one histogram series.
type HistogramSnapshot struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

// Snapshot is a point-in-time copy of every series.
type Snapshot struct {
	Timestamp  time.Time                    `json:"timestamp"`
	Counters   map[string]int64             `json:"counters"`
	Histograms map[string]HistogramSnapshot `json:"histograms"`
}

// Registry is safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	counters   map[string]int64
	histograms map[string]*histogram
	now        func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]int64),
		histograms: make(map[string]*histogram),
		now:        time.Now,
	}
}

func key(name string, labels Labels) string {
	if len(labels) == 0 {
		return name
	}

	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(labels[k])
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

// Inc adds one to the counter series.
func (r *Registry) Inc(name string, labels Labels) {
	r.Add(name, labels, 1)
}

func (r *Registry) Add(name string, labels Labels, delta int64) {
	k := key(name, labels)

	r.mu.Lock()
	r.counters[k] += delta
	r.mu.Unlock()
}

// Observe records one histogram sample.
func (r *Registry) Observe(name string, labels Labels, value float64) {
	k := key(name, labels)

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.histograms[k]
	if !ok {
		r.histograms[k] = &histogram{count: 1, sum: value, min: value, max: value}
		return
	}

	h.count++
	h.sum += value
	if value < h.min {
		h.min = value
	}
	if value > h.max {
		h.max = value
	}
}

// Counter returns the current value of a counter series.
func (r *Registry) Counter(name string, labels Labels) int64 {
	k := key(name, labels)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[k]
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Timestamp:  r.now().UTC(),
		Counters:   make(map[string]int64, len(r.counters)),
		Histograms: make(map[string]HistogramSnapshot, len(r.histograms)),
	}
	for k, v := range r.counters {
		s.Counters[k] = v
	}
	for k, h := range r.histograms {
		s.Histograms[k] = HistogramSnapshot{
			Count: h.count,
			Sum:   h.sum,
			Min:   h.min,
			Max:   h.max,
			Avg:   h.sum / float64(h.count),
		}
	}
	return s
}
