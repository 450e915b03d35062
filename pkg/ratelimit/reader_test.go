package ratelimit

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// TestNewLimiter tests the Limiter constructor
func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.bytesPerSecond != 1024*1024 {
			t.Errorf("bytesPerSecond = %d, want %d", limiter.bytesPerSecond, 1024*1024)
		}
	})

	t.Run("ZeroBytesPerSecond", func(t *testing.T) {
		if limiter := NewLimiter(0); limiter != nil {
			t.Error("NewLimiter(0) should return nil (no limiting)")
		}
	})

	t.Run("NegativeBytesPerSecond", func(t *testing.T) {
		if limiter := NewLimiter(-100); limiter != nil {
			t.Error("NewLimiter(-100) should return nil (no limiting)")
		}
	})

	t.Run("SmallLimitGetsMinimumBucket", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil")
		}
		if limiter.bucketSize != minBucket {
			t.Errorf("bucketSize = %d, want %d", limiter.bucketSize, minBucket)
		}
	})
}

// TestNewReader tests reader construction
func TestNewReader(t *testing.T) {
	t.Run("NilLimiterReturnsSource", func(t *testing.T) {
		src := strings.NewReader("test content")
		wrapped := NewReader(context.Background(), src, nil)
		if wrapped != io.Reader(src) {
			t.Error("NewReader() should return the source reader when limiter is nil")
		}
	})

	t.Run("WithLimiterWrapsSource", func(t *testing.T) {
		src := strings.NewReader("test content")
		wrapped := NewReader(context.Background(), src, NewLimiter(1024*1024))
		if wrapped == io.Reader(src) {
			t.Error("NewReader() should wrap the source reader when a limiter is provided")
		}
	})
}

// TestReaderRead tests throttled reads
func TestReaderRead(t *testing.T) {
	t.Run("ReadsAllContent", func(t *testing.T) {
		content := "hello world"
		wrapped := NewReader(context.Background(), strings.NewReader(content), NewLimiter(1024*1024))

		data, err := io.ReadAll(wrapped)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(data) != content {
			t.Errorf("ReadAll() = %q, want %q", data, content)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		limiter := NewLimiter(1000)
		limiter.tokens = 0
		limiter.lastRefill = time.Now()

		wrapped := NewReader(ctx, strings.NewReader("data"), limiter)
		_, err := wrapped.Read(make([]byte, 4))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Read() error = %v, want context.Canceled", err)
		}
	})

	t.Run("ThrottlesLargeRead", func(t *testing.T) {
		// 64 KiB bucket starts full, so a second chunk of the same
		// size must wait for a refill
		limiter := NewLimiter(minBucket * 10)
		payload := strings.Repeat("x", minBucket*2)
		wrapped := NewReader(context.Background(), strings.NewReader(payload), limiter)

		start := time.Now()
		if _, err := io.ReadAll(wrapped); err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if time.Since(start) < time.Millisecond {
			t.Error("second bucket-sized chunk should have waited for a refill")
		}
	})
}

// TestNewReadCloser tests the closing wrapper
func TestNewReadCloser(t *testing.T) {
	t.Run("CloseReachesSource", func(t *testing.T) {
		src := &trackingCloser{Reader: strings.NewReader("data")}
		wrapped := NewReadCloser(context.Background(), src, NewLimiter(1024*1024))

		if err := wrapped.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if !src.closed {
			t.Error("Close() should close the source")
		}
	})

	t.Run("NilLimiterReturnsSource", func(t *testing.T) {
		src := &trackingCloser{Reader: strings.NewReader("data")}
		wrapped := NewReadCloser(context.Background(), src, nil)
		if wrapped != io.ReadCloser(src) {
			t.Error("NewReadCloser() should return the source when limiter is nil")
		}
	})
}

type trackingCloser struct {
	io.Reader
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}
