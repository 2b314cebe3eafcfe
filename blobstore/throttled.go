package blobstore

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ThrottleConfig limits the I/O a ThrottledStore may issue.
type ThrottleConfig struct {
	// BytesPerSec caps the transfer rate of Put and Get. 0 means unlimited.
	BytesPerSec int64

	// MaxConcurrent caps the number of in-flight operations. 0 means unlimited.
	MaxConcurrent int64
}

// ThrottledStore wraps a BlobStore with a byte-rate limit and a concurrency limit.
type ThrottledStore struct {
	inner   BlobStore
	limiter *rate.Limiter       // nil if unlimited
	sem     *semaphore.Weighted // nil if unlimited
}

// NewThrottledStore creates a ThrottledStore.
func NewThrottledStore(inner BlobStore, cfg ThrottleConfig) *ThrottledStore {
	s := &ThrottledStore{inner: inner}
	if cfg.BytesPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.BytesPerSec), int(cfg.BytesPerSec))
	}
	if cfg.MaxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return s
}

func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if err := s.waitBytes(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Get charges the limiter after the read since the size is unknown up front.
func (s *ThrottledStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	b, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.waitBytes(ctx, len(b)); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return s.inner.Delete(ctx, name)
}

func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	return s.inner.List(ctx, prefix)
}

func (s *ThrottledStore) acquire(ctx context.Context) error {
	if s.sem == nil {
		return ctx.Err()
	}
	return s.sem.Acquire(ctx, 1)
}

func (s *ThrottledStore) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}

// waitBytes consumes n tokens in chunks no larger than the limiter burst.
func (s *ThrottledStore) waitBytes(ctx context.Context, n int) error {
	if s.limiter == nil {
		return nil
	}
	burst := s.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
