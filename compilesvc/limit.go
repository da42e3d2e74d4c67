package compilesvc

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type clientKey struct{}

// WithClient returns a context naming the client a compile is run
// for. Each client has its own rate limit bucket.
func WithClient(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientKey{}, id)
}

func client(ctx context.Context) string {
	id, _ := ctx.Value(clientKey{}).(string)
	return id
}

// bucketLimiter keeps one token bucket per client.
type bucketLimiter struct {
	freq  rate.Limit
	burst int

	bucketMu sync.Mutex // protects the following
	buckets  map[string]*rate.Limiter
}

func newBucketLimiter(freq float64, burst int) *bucketLimiter {
	if freq <= 0 {
		freq, burst = float64(rate.Inf), 0
	}
	return &bucketLimiter{
		freq:    rate.Limit(freq),
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (b *bucketLimiter) allow(id string) bool {
	return b.bucket(id).Allow()
}

func (b *bucketLimiter) bucket(id string) *rate.Limiter {
	b.bucketMu.Lock()
	bucket, ok := b.buckets[id]
	if !ok {
		bucket = rate.NewLimiter(b.freq, b.burst)
		b.buckets[id] = bucket
	}
	b.bucketMu.Unlock()
	return bucket
}
