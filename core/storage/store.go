package storage

import (
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("storage: key not found")

// HistoryEntry is one committed write to a key, as recorded by the store's
// native versioned-write history. Value is the serialized projection at
// that commit; empty when IsDelete is true.
type HistoryEntry struct {
	TxRef     string    `json:"txId"`
	Timestamp time.Time `json:"timestamp"`
	IsDelete  bool      `json:"isDelete"`
	Value     []byte    `json:"value,omitempty"`
}

// Iterator is a finite pull-based cursor over key/value pairs. Next must be
// called before the first Key/Value access. Callers release the iterator
// when done, including on early termination.
type Iterator interface {
	Next() bool
	Key() string
	Value() []byte
	Error() error
	Release()
}

// HistoryIterator walks the versioned writes of a single key in commit order.
type HistoryIterator interface {
	Next() bool
	Entry() HistoryEntry
	Error() error
	Release()
}

// StateStore abstracts the durable key-value store supplied by the host
// runtime. Every Put is recorded in the key's history as a single atomic
// commit; the store serializes conflicting writes internally, callers never
// take their own locks.
type StateStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Has(key string) (bool, error)
	// RangeScan iterates keys in [startKey, endKey) in key order. Empty
	// bounds mean unbounded on that side.
	RangeScan(startKey, endKey string) (Iterator, error)
	History(key string) (HistoryIterator, error)
	Close() error
}
