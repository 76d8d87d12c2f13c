package store

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize bounds the number of cached derivations per selector.
const DefaultMemoSize = 1024

// Version identifies one state of one aggregate. State at a given version
// never changes, so values derived from it can be cached.
type Version struct {
	Root     uuid.UUID
	Sequence uint32
}

// Memo caches derived values by key. Compute functions must be pure.
type Memo[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

// NewMemo creates a memo holding at most size entries.
func NewMemo[K comparable, V any](size int) *Memo[K, V] {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[K, V](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Memo[K, V]{cache: cache}
}

// Get returns the cached value for key, computing and storing it on a miss.
func (m *Memo[K, V]) Get(key K, compute func() V) V {
	if v, ok := m.cache.Get(key); ok {
		return v
	}
	v := compute()
	m.cache.Add(key, v)
	return v
}

// Len reports the number of cached entries.
func (m *Memo[K, V]) Len() int {
	return m.cache.Len()
}
