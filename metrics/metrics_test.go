package metrics

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRotatingLatency(t *testing.T) {
	l := NewRotatingLatency(2, time.Second)
	for i := 1; i <= 100; i++ {
		l.Record(time.Duration(i) * time.Millisecond)
	}
	l.Record(5 * time.Second)

	p50 := l.Quantile(50)
	if p50 < 49*time.Millisecond || p50 > 52*time.Millisecond {
		t.Errorf("p50 = %v, want about 50ms", p50)
	}

	var got struct {
		Count int64 `json:"count"`
		Over  int64 `json:"over"`
		Max   int64 `json:"max"`
	}
	if err := json.Unmarshal([]byte(l.String()), &got); err != nil {
		t.Fatalf("String() is not JSON: %v", err)
	}
	if got.Count != 101 || got.Over != 1 {
		t.Errorf("count = %d over = %d, want 101 and 1", got.Count, got.Over)
	}
	if got.Max < int64(990*time.Millisecond) {
		t.Errorf("max = %d, want the clamp value near 1s", got.Max)
	}

	// two rotations push every recorded value out of the window
	l.Rotate()
	l.Rotate()
	if q := l.Quantile(99); q != 0 {
		t.Errorf("after rotation p99 = %v, want 0", q)
	}
}

func TestCount(t *testing.T) {
	before := Counters()["test.count"]
	Count("test.count")
	Count("test.count")
	if got := Counters()["test.count"]; got != before+2 {
		t.Errorf("counter = %d, want %d", got, before+2)
	}
}

func BenchmarkRecord(b *testing.B) {
	l := NewRotatingLatency(5, time.Second)
	t0 := time.Now()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.RecordSince(t0)
	}
}
