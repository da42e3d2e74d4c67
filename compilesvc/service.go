// Package compilesvc runs compiles for concurrent callers. It
// caches artifacts by program content, shares one compile between
// callers asking for the same program at once, and limits the
// rate of compiles per client.
package compilesvc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"scriptc/compiler"
	"scriptc/errors"
	"scriptc/log"
	"scriptc/metrics"
	"scriptc/script"
	"scriptc/wasm"
)

// ErrRateLimited is returned when a client asks for compiles
// faster than its configured rate.
var ErrRateLimited = errors.New("compile rate limit exceeded")

// DefaultCacheSize is the number of artifacts kept when
// Config.CacheSize is zero.
const DefaultCacheSize = 128

// Config configures a Service.
type Config struct {
	Compiler compiler.Config

	// CacheSize is the number of artifacts kept. Negative
	// disables the cache.
	CacheSize int

	// Rate is the number of compiles per second allowed for each
	// client, with bursts up to Burst. Zero means no limit.
	Rate  float64
	Burst int
}

// Hash identifies a program by the SHA3-256 of its JSON encoding.
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// HashProgram returns the hash of prog.
func HashProgram(prog *script.Program) (Hash, error) {
	b, err := json.Marshal(prog)
	if err != nil {
		return Hash{}, errors.Wrap(err, "encoding program")
	}
	return sha3.Sum256(b), nil
}

// Artifact is a compiled module.
type Artifact struct {
	Hash   Hash
	Binary []byte
}

// Service compiles programs. It is safe for concurrent use.
type Service struct {
	cfg     Config
	limiter *bucketLimiter
	group   singleflight.Group
	latency *metrics.RotatingLatency

	cacheMu sync.Mutex
	cache   *lru.Cache // nil when disabled
}

var (
	latencyOnce sync.Once
	latency     *metrics.RotatingLatency
)

// New returns a Service using cfg.
func New(cfg Config) *Service {
	latencyOnce.Do(func() {
		latency = metrics.NewRotatingLatency(5, 2*time.Second)
		metrics.PublishLatency("compile", latency)
	})
	s := &Service{
		cfg:     cfg,
		limiter: newBucketLimiter(cfg.Rate, cfg.Burst),
		latency: latency,
	}
	switch {
	case cfg.CacheSize == 0:
		s.cache = lru.New(DefaultCacheSize)
	case cfg.CacheSize > 0:
		s.cache = lru.New(cfg.CacheSize)
	}
	return s
}

// Compile returns the module compiled from prog. Concurrent
// requests for the same program share one compile. Each caller is
// checked against its own client's rate limit, cache hits
// included.
func (s *Service) Compile(ctx context.Context, prog *script.Program) (*Artifact, error) {
	ctx = log.NewCompileID(ctx)
	metrics.Count("compile.requests")
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "compile not started")
	}

	h, err := HashProgram(prog)
	if err != nil {
		return nil, err
	}
	if id := client(ctx); !s.limiter.allow(id) {
		metrics.Count("compile.ratelimited")
		log.Printkv(ctx, "at", "compile", "hash", h, "client", id, "error", "rate limited")
		return nil, errors.WithData(ErrRateLimited, "client", id)
	}
	if a, ok := s.lookup(h); ok {
		metrics.Count("compile.cachehit")
		log.Printkv(ctx, "at", "compile", "hash", h, "cache", "hit")
		return a, nil
	}

	// Callers joining the flight get its result, so it must not
	// carry the first caller's cancellation.
	shared := log.WithCompileID(context.Background(), log.CompileID(ctx))
	v, err := s.group.Do(h.String(), func() (interface{}, error) {
		return s.compile(shared, h, prog)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

func (s *Service) compile(ctx context.Context, h Hash, prog *script.Program) (*Artifact, error) {
	t0 := time.Now()
	log.Printkv(ctx, "at", "compile", "hash", h, "lines", len(prog.Lines))
	bin, err := compiler.Compile(ctx, prog, s.cfg.Compiler)
	s.latency.RecordSince(t0)
	if err != nil {
		metrics.Count("compile.error")
		log.Error(ctx, err, "hash", h)
		return nil, err
	}
	metrics.Count("compile.ok")
	log.Printkv(ctx, "at", "compiled", "hash", h, "bytes", len(bin), "elapsed", time.Since(t0))

	a := &Artifact{Hash: h, Binary: bin}
	s.store(a)
	return a, nil
}

func (s *Service) lookup(h Hash) (*Artifact, bool) {
	if s.cache == nil {
		return nil, false
	}
	s.cacheMu.Lock()
	v, ok := s.cache.Get(h)
	s.cacheMu.Unlock()
	if !ok {
		return nil, false
	}
	return v.(*Artifact), true
}

func (s *Service) store(a *Artifact) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	s.cache.Add(a.Hash, a)
	s.cacheMu.Unlock()
}

// CompileMany compiles each program independently and returns the
// artifacts in order. The first error cancels the compiles not yet
// started and is returned.
func (s *Service) CompileMany(ctx context.Context, progs []*script.Program) ([]*Artifact, error) {
	out := make([]*Artifact, len(progs))
	g, gctx := errgroup.WithContext(ctx)
	for i, prog := range progs {
		i, prog := i, prog
		g.Go(func() error {
			a, err := s.Compile(gctx, prog)
			if err != nil {
				return errors.Wrapf(err, "program %d", i)
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Disassemble compiles prog, using the cache, and returns a
// listing of the module.
func (s *Service) Disassemble(ctx context.Context, prog *script.Program) (string, error) {
	a, err := s.Compile(ctx, prog)
	if err != nil {
		return "", err
	}
	m, err := wasm.Decode(a.Binary)
	if err != nil {
		return "", errors.Wrap(err, "decoding compiled module")
	}
	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
