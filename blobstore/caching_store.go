package blobstore

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheBytes is the cache capacity used when NewCachingStore gets a non-positive size.
const DefaultCacheBytes = 64 << 20

// CachingStore wraps a BlobStore with a byte-bounded LRU of whole blobs.
// Concurrent misses for the same name share a single inner Get.
type CachingStore struct {
	inner BlobStore
	group singleflight.Group

	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List
	// generation is bumped on every write so in-flight loads do not
	// repopulate the cache with stale data.
	generation map[string]uint64

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name  string
	value []byte
}

// NewCachingStore creates a CachingStore holding at most capacity bytes.
func NewCachingStore(inner BlobStore, capacity int64) *CachingStore {
	if capacity <= 0 {
		capacity = DefaultCacheBytes
	}
	return &CachingStore{
		inner:      inner,
		capacity:   capacity,
		items:      make(map[string]*list.Element),
		evictList:  list.New(),
		generation: make(map[string]uint64),
	}
}

// Put writes through to the inner store and drops the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	err := s.inner.Put(ctx, name, data)
	s.invalidate(name)
	return err
}

// Get returns a cached copy or loads the blob from the inner store.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if b, ok := s.lookup(name); ok {
		return slices.Clone(b), nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		gen := s.currentGeneration(name)
		b, err := s.inner.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		s.store(name, gen, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]byte)), nil
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is not cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the number of cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Size returns the number of cached bytes.
func (s *CachingStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *CachingStore) lookup(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[name]; ok {
		s.hits.Add(1)
		s.evictList.MoveToFront(ent)
		return ent.Value.(*cacheEntry).value, true
	}
	s.misses.Add(1)
	return nil, false
}

func (s *CachingStore) currentGeneration(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation[name]
}

func (s *CachingStore) store(name string, gen uint64, b []byte) {
	itemSize := int64(len(b))
	if itemSize > s.capacity {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation[name] != gen {
		return
	}
	if ent, ok := s.items[name]; ok {
		s.removeElement(ent)
	}
	for s.size+itemSize > s.capacity {
		ent := s.evictList.Back()
		if ent == nil {
			break
		}
		s.removeElement(ent)
	}

	s.items[name] = s.evictList.PushFront(&cacheEntry{name: name, value: slices.Clone(b)})
	s.size += itemSize
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation[name]++
	if ent, ok := s.items[name]; ok {
		s.removeElement(ent)
	}
}

func (s *CachingStore) removeElement(e *list.Element) {
	s.evictList.Remove(e)
	kv := e.Value.(*cacheEntry)
	delete(s.items, kv.name)
	s.size -= int64(len(kv.value))
}
