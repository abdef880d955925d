package cache

import (
	"container/list"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"hash"
	"sync"
)

// Store is a bounded, least-recently-used memo table. Values must be treated
// as immutable by callers since the same value is handed out on every hit.
type Store[V any] struct {
	mu     sync.Mutex
	max    int
	ll     *list.List
	items  map[string]*list.Element
	hits   uint64
	misses uint64
}

type entry[V any] struct {
	key string
	val V
}

// New returns a store holding at most max entries. max <= 0 means 1.
func New[V any](max int) *Store[V] {
	if max <= 0 {
		max = 1
	}
	return &Store[V]{max: max, ll: list.New(), items: make(map[string]*list.Element)}
}

// Get returns the value for key and marks it as recently used.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.ll.MoveToFront(el)
		s.hits++
		return el.Value.(*entry[V]).val, true
	}
	s.misses++
	var zero V
	return zero, false
}

// Put stores val under key, evicting the least recently used entry when full.
func (s *Store[V]) Put(key string, val V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		el.Value.(*entry[V]).val = val
		s.ll.MoveToFront(el)
		return
	}
	s.items[key] = s.ll.PushFront(&entry[V]{key: key, val: val})
	for s.ll.Len() > s.max {
		last := s.ll.Back()
		s.ll.Remove(last)
		delete(s.items, last.Value.(*entry[V]).key)
	}
}

// Len reports the number of cached entries.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ll.Len()
}

// Stats returns hit and miss counters.
func (s *Store[V]) Stats() (hits, misses uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses
}

// Hasher builds content keys. Every part is length-prefixed so that
// ("ab","c") and ("a","bc") hash differently.
type Hasher struct {
	h hash.Hash
}

func NewHasher() *Hasher { return &Hasher{h: sha1.New()} }

// Add feeds parts into the key in order.
func (k *Hasher) Add(parts ...[]byte) *Hasher {
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		k.h.Write(n[:])
		k.h.Write(p)
	}
	return k
}

// Sum returns the hex digest.
func (k *Hasher) Sum() string {
	return fmt.Sprintf("%x", k.h.Sum(nil))
}
