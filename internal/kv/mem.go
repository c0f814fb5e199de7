package kv

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemStore is an in-memory [Store]. FailPut, when set, is consulted before
// every write and can refuse it.
type MemStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes map[string]int
	closed bool

	FailPut func(key string, value []byte) error
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}, writes: map[string]int{}}
}

func (m *MemStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return slices.Clone(v), nil
}

func (m *MemStore) Put(key string, value []byte) error {
	err := checkKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.FailPut != nil {
		if err := m.FailPut(key, value); err != nil {
			return err
		}
	}

	m.data[key] = slices.Clone(value)
	m.writes[key]++

	return nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.data, key)

	return nil
}

func (m *MemStore) Size() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, v := range m.data {
		total += int64(len(v))
	}

	return total, nil
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

// Writes returns how many successful writes key has received.
func (m *MemStore) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes[key]
}

// Keys returns the stored keys in sorted order.
func (m *MemStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Sorted(maps.Keys(m.data))
}
