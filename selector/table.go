package selector

import "sync"

// table is a bounded memo of two generations. Writes go to the head
// generation; when it holds maxSize entries it becomes the tail and a fresh
// head is started, dropping the old tail. Lookups fall back to the tail.
type table[K comparable, V any] struct {
	mu      sync.Mutex
	gens    [2]map[K]V
	head    int
	maxSize int
}

func newTable[K comparable, V any](maxSize uint32) *table[K, V] {
	if maxSize == 0 {
		panic("selector: maxSize should be greater than 0")
	}
	return &table[K, V]{
		gens:    [2]map[K]V{make(map[K]V), make(map[K]V)},
		maxSize: int(maxSize),
	}
}

func (t *table[K, V]) load(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.gens[t.head][key]; ok {
		return v, true
	}
	v, ok := t.gens[1-t.head][key]
	return v, ok
}

func (t *table[K, V]) store(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.gens[t.head]) >= t.maxSize {
		t.head = 1 - t.head
		t.gens[t.head] = make(map[K]V, t.maxSize)
	}
	t.gens[t.head][key] = value
}

// memoize runs fn outside the lock, so fn may call the memoized function
// recursively. Concurrent misses on one key may compute it more than once.
func memoize[K comparable, V any](t *table[K, V], key K, fn func() V) V {
	if v, ok := t.load(key); ok {
		return v
	}
	v := fn()
	t.store(key, v)
	return v
}
