package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

// minBucket keeps small limits from stalling buffered reads
const minBucket = 65536

// Limiter is a token bucket shared by every transfer of a sync run,
// so the limit applies to the whole run rather than per file
type Limiter struct {
	bytesPerSecond int64

	mu         sync.Mutex
	tokens     int64
	bucketSize int64
	lastRefill time.Time
}

// NewLimiter creates a limiter for the given bytes per second.
// A non-positive limit returns nil, which disables limiting.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucketSize := bytesPerSecond
	if bucketSize < minBucket {
		bucketSize = minBucket
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		tokens:         bucketSize,
		bucketSize:     bucketSize,
		lastRefill:     time.Now(),
	}
}

// take blocks until n tokens are available or the context is done
func (l *Limiter) take(ctx context.Context, n int64) error {
	if n > l.bucketSize {
		n = l.bucketSize
	}

	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		wait := time.Duration(deficit * int64(time.Second) / l.bytesPerSecond)
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill credits tokens for the time since the last refill
// Callers must hold the mutex
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)

	credit := elapsed.Nanoseconds() * l.bytesPerSecond / int64(time.Second)
	if credit <= 0 {
		return
	}

	l.tokens += credit
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
	l.lastRefill = now
}

// reader throttles an io.Reader against a shared limiter
type reader struct {
	ctx     context.Context
	src     io.Reader
	limiter *Limiter
}

// NewReader wraps an io.Reader with rate limiting. A nil limiter
// returns the reader unchanged.
func NewReader(ctx context.Context, src io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return src
	}
	return &reader{ctx: ctx, src: src, limiter: limiter}
}

func (r *reader) Read(p []byte) (int, error) {
	chunk := int64(len(p))
	if chunk > r.limiter.bucketSize {
		chunk = r.limiter.bucketSize
	}

	if err := r.limiter.take(r.ctx, chunk); err != nil {
		return 0, err
	}

	return r.src.Read(p[:chunk])
}

// readCloser throttles an io.ReadCloser against a shared limiter
type readCloser struct {
	reader
	closer io.Closer
}

// NewReadCloser wraps an io.ReadCloser with rate limiting. A nil
// limiter returns the source unchanged.
func NewReadCloser(ctx context.Context, src io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return src
	}
	return &readCloser{
		reader: reader{ctx: ctx, src: src, limiter: limiter},
		closer: src,
	}
}

func (rc *readCloser) Close() error {
	return rc.closer.Close()
}
