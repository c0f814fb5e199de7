package kv

import (
	"errors"
	"fmt"
	"sync"
)

// QuotaStore rejects writes that would grow the wrapped store past a byte
// limit.
type QuotaStore struct {
	mu    sync.Mutex
	inner Store
	max   int64
}

// WithQuota wraps inner with a total-size limit. A limit <= 0 returns inner
// unchanged.
func WithQuota(inner Store, maxBytes int64) Store {
	if maxBytes <= 0 {
		return inner
	}

	return &QuotaStore{inner: inner, max: maxBytes}
}

func (q *QuotaStore) Get(key string) ([]byte, error) {
	return q.inner.Get(key)
}

func (q *QuotaStore) Put(key string, value []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	used, err := q.inner.Size()
	if err != nil {
		return err
	}

	old, err := q.inner.Get(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if next := used - int64(len(old)) + int64(len(value)); next > q.max {
		return fmt.Errorf("%w: %s needs %d bytes, limit %d", ErrQuotaExceeded, key, next, q.max)
	}

	return q.inner.Put(key, value)
}

func (q *QuotaStore) Delete(key string) error {
	return q.inner.Delete(key)
}

func (q *QuotaStore) Size() (int64, error) {
	return q.inner.Size()
}

func (q *QuotaStore) Close() error {
	return q.inner.Close()
}
