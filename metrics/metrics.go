// Package metrics provides compile metrics.
// Defined metrics:
//
//	compile.requests (counter)
//	compile.ok (counter)
//	compile.error (counter)
//	compile.cachehit (counter)
//	compile.ratelimited (counter)
//	latency.NAME (expvar, rotating latency histogram)
package metrics

import (
	"expvar"
	"fmt"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/codahale/metrics"
)

// Count adds one to the named counter.
func Count(name string) {
	metrics.Counter(name).Add()
}

// Counters returns a snapshot of every counter.
func Counters() map[string]uint64 {
	c, _ := metrics.Snapshot()
	return c
}

var latencyExpvar = expvar.NewMap("latency")

// PublishLatency publishes l as expvar latency.key.
func PublishLatency(key string, l *RotatingLatency) {
	latencyExpvar.Set(key, l)
}

// RotatingLatency keeps a latency histogram over the last n
// periods. Durations above max are recorded as max.
type RotatingLatency struct {
	mu     sync.Mutex
	h      *hdrhistogram.WindowedHistogram
	max    time.Duration
	period time.Duration
	next   time.Time
	over   int64 // values clamped to max in the current window
}

// NewRotatingLatency returns a histogram of n windows, each one
// minute long, tracking durations up to max.
func NewRotatingLatency(n int, max time.Duration) *RotatingLatency {
	return &RotatingLatency{
		h:      hdrhistogram.NewWindowed(n, 0, int64(max), 2),
		max:    max,
		period: time.Minute,
		next:   time.Now().Add(time.Minute),
	}
}

// Record records a single duration.
func (r *RotatingLatency) Record(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now := time.Now(); now.After(r.next) {
		r.rotate()
		r.next = now.Add(r.period)
	}
	if d > r.max {
		r.over++
		d = r.max
	}
	if d < 0 {
		d = 0
	}
	r.h.Current.RecordValue(int64(d))
}

// RecordSince records the time elapsed since t0.
func (r *RotatingLatency) RecordSince(t0 time.Time) {
	r.Record(time.Since(t0))
}

// Rotate starts a new window, dropping the oldest.
func (r *RotatingLatency) Rotate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotate()
}

func (r *RotatingLatency) rotate() {
	r.h.Rotate()
	r.over = 0
}

// Quantile returns the duration at quantile q, between 0 and 100,
// over all windows.
func (r *RotatingLatency) Quantile(q float64) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Duration(r.h.Merge().ValueAtQuantile(q))
}

// String renders the merged histogram as a JSON object, which
// makes r an expvar.Var.
func (r *RotatingLatency) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.h.Merge()
	return fmt.Sprintf(`{"count":%d,"p50":%d,"p90":%d,"p99":%d,"max":%d,"over":%d}`,
		m.TotalCount(),
		m.ValueAtQuantile(50),
		m.ValueAtQuantile(90),
		m.ValueAtQuantile(99),
		m.Max(),
		r.over,
	)
}
