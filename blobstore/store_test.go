package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStoreSuite(t *testing.T, newStore func(t *testing.T) BlobStore) {
	t.Run("PutGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "a/pipeline.bin", []byte("hello")))
		got, err := s.Get(ctx, "a/pipeline.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "x", []byte("one")))
		require.NoError(t, s.Put(ctx, "x", []byte("two")))
		got, err := s.Get(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "missing/blob")
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "d", []byte("v")))
		require.NoError(t, s.Delete(ctx, "d"))
		_, err := s.Get(ctx, "d")
		assert.True(t, errors.Is(err, ErrNotFound))

		// Deleting again is a no-op.
		require.NoError(t, s.Delete(ctx, "d"))
	})

	t.Run("List", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, name := range []string{"m/2/b", "m/1/a", "n/c", "m/1/b"} {
			require.NoError(t, s.Put(ctx, name, []byte(name)))
		}

		names, err := s.List(ctx, "m/")
		require.NoError(t, err)
		assert.Equal(t, []string{"m/1/a", "m/1/b", "m/2/b"}, names)

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("CallerOwnsBuffers", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		data := []byte("abc")
		require.NoError(t, s.Put(ctx, "buf", data))
		data[0] = 'z'

		got, err := s.Get(ctx, "buf")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))

		got[1] = 'z'
		again, err := s.Get(ctx, "buf")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again))
	})

	t.Run("InvalidName", func(t *testing.T) {
		s := newStore(t)
		for _, name := range []string{"", "/abs", "../up", "a/../b"} {
			err := s.Put(context.Background(), name, []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Put(ctx, "c", []byte("x")), context.Canceled)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) BlobStore { return NewMemoryStore() })
}

func TestLocalStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) BlobStore { return NewLocalStore(t.TempDir()) })
}

func TestCachingStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) BlobStore { return NewCachingStore(NewMemoryStore(), 1<<10) })
}

func TestThrottledStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) BlobStore {
		return NewThrottledStore(NewMemoryStore(), ThrottleConfig{BytesPerSec: 1 << 20, MaxConcurrent: 4})
	})
}

func TestLocalStore_AtomicPutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "run/metadata.json", []byte("{}")))

	entries, err := os.ReadDir(filepath.Join(dir, "run"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "metadata.json", entries[0].Name())
}

func TestLocalStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", []byte("1")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tmp-123"), []byte("junk"), 0o644))

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	s := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))
	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a/b", Join("a", "b"))
	assert.Equal(t, "b", Join("", "b"))
	assert.Equal(t, "a/b", Join("/a/", "b"))
}

type countingStore struct {
	BlobStore
	mu   sync.Mutex
	gets int
}

func (c *countingStore) Get(ctx context.Context, name string) ([]byte, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.BlobStore.Get(ctx, name)
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func TestCachingStore_HitsAndInvalidation(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{BlobStore: NewMemoryStore()}
	s := NewCachingStore(inner, 1<<10)

	require.NoError(t, s.Put(ctx, "k", []byte("v1")))

	for range 3 {
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v1", string(got))
	}
	assert.Equal(t, 1, inner.count())

	hits, misses := s.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)

	require.NoError(t, s.Put(ctx, "k", []byte("v2")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
	assert.Equal(t, 2, inner.count())

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), s.Size())
}

func TestCachingStore_EvictsByBytes(t *testing.T) {
	ctx := context.Background()
	s := NewCachingStore(NewMemoryStore(), 10)

	for i := range 4 {
		require.NoError(t, s.Put(ctx, fmt.Sprintf("b%d", i), make([]byte, 4)))
	}
	for i := range 4 {
		_, err := s.Get(ctx, fmt.Sprintf("b%d", i))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, s.Size(), int64(10))
	assert.Equal(t, int64(8), s.Size())

	// Blobs larger than the cache are served but not retained.
	require.NoError(t, s.Put(ctx, "big", make([]byte, 11)))
	got, err := s.Get(ctx, "big")
	require.NoError(t, err)
	assert.Len(t, got, 11)
	assert.Equal(t, int64(8), s.Size())
}

func TestCachingStore_ConcurrentGets(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{BlobStore: NewMemoryStore()}
	require.NoError(t, inner.Put(ctx, "shared", []byte("payload")))
	s := NewCachingStore(inner, 1<<10)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Get(ctx, "shared")
			assert.NoError(t, err)
			assert.Equal(t, "payload", string(got))
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, inner.count(), 16)
	assert.GreaterOrEqual(t, inner.count(), 1)
}

func TestThrottledStore_RateLimitsLargePuts(t *testing.T) {
	ctx := context.Background()
	s := NewThrottledStore(NewMemoryStore(), ThrottleConfig{BytesPerSec: 1000})

	start := time.Now()
	// The first 1000 bytes are covered by the initial burst; the rest waits.
	require.NoError(t, s.Put(ctx, "slow", make([]byte, 1500)))
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}

func TestThrottledStore_ContextCanceledWhileWaiting(t *testing.T) {
	inner := NewMemoryStore()
	s := NewThrottledStore(inner, ThrottleConfig{BytesPerSec: 10})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Put(ctx, "x", make([]byte, 100))
	require.Error(t, err)

	_, err = inner.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestThrottledStore_ConcurrencyLimit(t *testing.T) {
	ctx := context.Background()
	inner := &blockingStore{BlobStore: NewMemoryStore(), release: make(chan struct{})}
	s := NewThrottledStore(inner, ThrottleConfig{MaxConcurrent: 1})

	done := make(chan struct{})
	go func() {
		_ = s.Put(ctx, "a", []byte("x"))
		close(done)
	}()

	// Wait until the first Put holds the slot.
	require.Eventually(t, func() bool { return inner.active() == 1 }, time.Second, time.Millisecond)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Delete(short, "a"), context.DeadlineExceeded)

	close(inner.release)
	<-done
}

type blockingStore struct {
	BlobStore
	release chan struct{}
	mu      sync.Mutex
	n       int
}

func (b *blockingStore) Put(ctx context.Context, name string, data []byte) error {
	b.mu.Lock()
	b.n++
	b.mu.Unlock()
	<-b.release
	return b.BlobStore.Put(ctx, name, data)
}

func (b *blockingStore) active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}
