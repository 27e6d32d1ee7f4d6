package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process StateStore with the same history semantics as the
// LevelDB store. Used in tests and for running a node without a data dir.
type Memory struct {
	mu      sync.RWMutex
	data    map[string][]byte
	history map[string][]HistoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		data:    make(map[string][]byte),
		history: make(map[string][]HistoryEntry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the commit timestamp source. Test hook.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Has(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	m.history[key] = append(m.history[key], HistoryEntry{
		TxRef:     uuid.NewString(),
		Timestamp: m.now(),
		Value:     stored,
	})
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.history[key] = append(m.history[key], HistoryEntry{
		TxRef:     uuid.NewString(),
		Timestamp: m.now(),
		IsDelete:  true,
	})
	return nil
}

// RangeScan snapshots the matching keys at call time; the iterator stays
// valid while later writes land.
func (m *Memory) RangeScan(startKey, endKey string) (Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if k < startKey {
			continue
		}
		if endKey != "" && k >= endKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = m.data[k]
	}
	return &sliceIterator{keys: keys, values: values, pos: -1}, nil
}

func (m *Memory) History(key string) (HistoryIterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]HistoryEntry, len(m.history[key]))
	copy(entries, m.history[key])
	return &sliceHistoryIterator{entries: entries, pos: -1}, nil
}

func (m *Memory) Close() error { return nil }

type sliceIterator struct {
	keys   []string
	values [][]byte
	pos    int
}

func (it *sliceIterator) Next() bool {
	if it.pos+1 >= len(it.keys) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Key() string { return it.keys[it.pos] }

func (it *sliceIterator) Value() []byte { return it.values[it.pos] }

func (it *sliceIterator) Error() error { return nil }

func (it *sliceIterator) Release() {}

type sliceHistoryIterator struct {
	entries []HistoryEntry
	pos     int
}

func (it *sliceHistoryIterator) Next() bool {
	if it.pos+1 >= len(it.entries) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceHistoryIterator) Entry() HistoryEntry { return it.entries[it.pos] }

func (it *sliceHistoryIterator) Error() error { return nil }

func (it *sliceHistoryIterator) Release() {}
