// Package lru provides a small fixed-capacity map that evicts the least
// recently used entry. It is meant for tens of entries; eviction is a linear
// scan. Map is not safe for concurrent use; callers serialize access.
package lru

type entry[V any] struct {
	value    V
	lastUsed uint64
}

// Map is a bounded map keyed by K. Every Get and Put stamps the touched
// entry with a monotonically increasing counter.
type Map[K comparable, V any] struct {
	entries  map[K]*entry[V]
	counter  uint64
	capacity int
}

// New creates a Map holding at most capacity entries. A capacity of zero
// behaves like one: each Put of a new key evicts whatever is stored.
func New[K comparable, V any](capacity int) *Map[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Map[K, V]{
		entries:  make(map[K]*entry[V], max(capacity, 1)),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it as most recently used.
func (m *Map[K, V]) Get(key K) (V, bool) {
	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	m.counter++
	e.lastUsed = m.counter
	return e.value, true
}

// Contains reports whether key is present without touching its recency.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.entries[key]
	return ok
}

// Put inserts or replaces the value for key. Inserting a new key into a
// full map first evicts the least recently used entry.
func (m *Map[K, V]) Put(key K, value V) {
	m.counter++
	if e, ok := m.entries[key]; ok {
		e.value = value
		e.lastUsed = m.counter
		return
	}
	if len(m.entries) >= m.capacity {
		m.evict()
	}
	m.entries[key] = &entry[V]{value: value, lastUsed: m.counter}
}

func (m *Map[K, V]) evict() {
	var (
		oldest K
		lowest uint64
		found  bool
	)
	for k, e := range m.entries {
		if !found || e.lastUsed < lowest {
			oldest, lowest, found = k, e.lastUsed, true
		}
	}
	if found {
		delete(m.entries, oldest)
	}
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// Clear removes every entry and resets the recency counter.
func (m *Map[K, V]) Clear() {
	clear(m.entries)
	m.counter = 0
}
