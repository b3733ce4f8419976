// Package intmap provides a hash map keyed by packed 32-bit coordinates.
//
// Each bucket is a small slot array that doubles when full; the bucket table
// doubles and rehashes once the entry count reaches capacity*loadFactor.
// Entries are never deleted.
package intmap

import (
	"errors"
	"fmt"
	"math/bits"
	"reflect"
)

const (
	minimumSize       = 8
	defaultBucketSize = 4
	DefaultLoadFactor = 0.75
)

// ErrNilValue is returned by Put for nil values; a stored nil could not be
// told apart from a missing key.
var ErrNilValue = errors.New("intmap: nil value")

type entry[V any] struct {
	key   uint32
	value V
}

// Map is a primitive-keyed hash map. It is not safe for concurrent writes;
// concurrent reads of a fully built map are safe.
type Map[V any] struct {
	buckets    [][]entry[V]
	size       int
	capacity   int
	mask       uint32
	loadFactor float64
}

// New returns a map sized for roughly initialSize entries.
func New[V any](initialSize int) *Map[V] {
	m, _ := NewWithLoadFactor[V](initialSize, DefaultLoadFactor)
	return m
}

// NewWithLoadFactor returns a map with a custom load factor in (0, 1].
func NewWithLoadFactor[V any](initialSize int, loadFactor float64) (*Map[V], error) {
	if loadFactor <= 0 || loadFactor > 1 {
		return nil, fmt.Errorf("intmap: load factor %v outside (0, 1]", loadFactor)
	}
	m := &Map[V]{loadFactor: loadFactor}
	m.resize(tableSize(initialSize))
	return m, nil
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return m.size
}

// Buckets returns the current bucket table size.
func (m *Map[V]) Buckets() int {
	return len(m.buckets)
}

// Get returns the value for key.
func (m *Map[V]) Get(key uint32) (V, bool) {
	for _, e := range m.buckets[m.bucket(key)] {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// GetOrDefault returns the value for key, or def when absent.
func (m *Map[V]) GetOrDefault(key uint32, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Put inserts or overwrites the value for key.
func (m *Map[V]) Put(key uint32, value V) error {
	if isNil(value) {
		return fmt.Errorf("put key %d: %w", key, ErrNilValue)
	}

	idx := m.bucket(key)
	b := m.buckets[idx]
	for i := range b {
		if b[i].key == key {
			b[i].value = value
			return nil
		}
	}

	m.buckets[idx] = appendSlot(b, entry[V]{key: key, value: value})
	m.size++
	if m.size >= m.capacity {
		m.rehash()
	}
	return nil
}

// Range calls fn for every entry until fn returns false. Order is unspecified.
func (m *Map[V]) Range(fn func(key uint32, value V) bool) {
	for _, b := range m.buckets {
		for _, e := range b {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Clear removes all entries but keeps the table size.
func (m *Map[V]) Clear() {
	clear(m.buckets)
	m.size = 0
}

func hash(k uint32) uint32 {
	return k ^ (k >> 5) ^ (k >> 25)
}

func (m *Map[V]) bucket(key uint32) uint32 {
	return hash(key) & m.mask
}

// appendSlot adds e to b, doubling the slot array when it is full.
func appendSlot[V any](b []entry[V], e entry[V]) []entry[V] {
	if b == nil {
		b = make([]entry[V], 0, defaultBucketSize)
	} else if len(b) == cap(b) {
		grown := make([]entry[V], len(b), 2*cap(b))
		copy(grown, b)
		b = grown
	}
	return append(b, e)
}

func (m *Map[V]) resize(size int) {
	m.buckets = make([][]entry[V], size)
	m.mask = uint32(size - 1)
	m.capacity = int(float64(size) * m.loadFactor)
}

func (m *Map[V]) rehash() {
	old := m.buckets
	m.resize(2 * len(old))
	for _, b := range old {
		for _, e := range b {
			idx := m.bucket(e.key)
			m.buckets[idx] = appendSlot(m.buckets[idx], e)
		}
	}
}

// tableSize returns the next power of two strictly above size, at least minimumSize.
func tableSize(size int) int {
	if size < minimumSize {
		size = minimumSize - 1
	}
	const limit = 1 << 30
	if size >= limit {
		return limit
	}
	return 1 << bits.Len(uint(size))
}

func isNil[V any](v V) bool {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
