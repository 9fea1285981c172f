package state

import (
	"errors"
	"sync"
)

// MemStore is a map-backed TransactionalStore. Update runs the callback
// against an overlay of pending writes and deletes, merging it into the base
// map only when the callback succeeds. A RWMutex gives it the same
// concurrent Update/View contract as the badger backend.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// overlay buffers writes during an Update transaction.
type overlay struct {
	base    map[string][]byte
	pending map[string][]byte
	deleted map[string]bool
}

func (o *overlay) Get(key string) ([]byte, error) {
	if o.deleted[key] {
		return nil, ErrNotFound
	}
	if v, ok := o.pending[key]; ok {
		return append([]byte(nil), v...), nil
	}
	if v, ok := o.base[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

func (o *overlay) Set(key string, value []byte) error {
	delete(o.deleted, key)
	o.pending[key] = append([]byte(nil), value...)
	return nil
}

func (o *overlay) Delete(key string) error {
	delete(o.pending, key)
	o.deleted[key] = true
	return nil
}

// readOnly rejects writes inside View callbacks.
type readOnly struct {
	base map[string][]byte
}

func (r readOnly) Get(key string) ([]byte, error) {
	if v, ok := r.base[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

func (r readOnly) Set(string, []byte) error { return errReadOnly }
func (r readOnly) Delete(string) error      { return errReadOnly }

var errReadOnly = errors.New("state: write inside read-only view")

// Update applies fn against an overlay and commits its writes only when fn
// returns nil.
func (m *MemStore) Update(fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := &overlay{
		base:    m.data,
		pending: make(map[string][]byte),
		deleted: make(map[string]bool),
	}
	if err := fn(o); err != nil {
		return err
	}
	for k := range o.deleted {
		delete(m.data, k)
	}
	for k, v := range o.pending {
		m.data[k] = v
	}
	return nil
}

// View runs fn against a read-only view of the current data. The read lock
// is held for the duration of fn, so views never observe a half-committed
// Update.
func (m *MemStore) View(fn func(Store) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(readOnly{base: m.data})
}

// Close releases nothing; it exists to satisfy TransactionalStore.
func (m *MemStore) Close() error { return nil }

// Len reports the number of stored keys.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
