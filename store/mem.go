package store

import (
	"bytes"
	"sort"
	"sync"
)

// MemStore is an in-memory Store implementation for tests and the replay
// idempotence property checks (spec P5), interchangeable with BoltStore
// since both satisfy the same Store/Tx contract.
type MemStore struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

// NewMemStore creates an empty in-memory store with every bucket this
// module's key scheme uses already present.
func NewMemStore() *MemStore {
	m := &MemStore{buckets: make(map[string]map[string][]byte)}
	for _, b := range allBuckets {
		m.buckets[string(b)] = make(map[string][]byte)
	}
	return m
}

func (m *MemStore) Update(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{store: m})
}

func (m *MemStore) View(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{store: m, readOnly: true})
}

func (m *MemStore) Close() error { return nil }

type memTx struct {
	store    *MemStore
	readOnly bool
}

func (t *memTx) Get(bucket, key []byte) ([]byte, error) {
	b := t.store.buckets[string(bucket)]
	v, ok := b[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (t *memTx) Put(bucket, key, value []byte) error {
	b := t.store.buckets[string(bucket)]
	cp := make([]byte, len(value))
	copy(cp, value)
	b[string(key)] = cp
	return nil
}

func (t *memTx) Delete(bucket, key []byte) error {
	b := t.store.buckets[string(bucket)]
	delete(b, string(key))
	return nil
}

func (t *memTx) Iterate(bucket, prefix []byte, fn func(key, value []byte) error) error {
	b := t.store.buckets[string(bucket)]
	keys := make([]string, 0, len(b))
	for k := range b {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), b[k]); err != nil {
			return err
		}
	}
	return nil
}
