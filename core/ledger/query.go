package ledger

import (
	"encoding/json"
	"time"

	"studentkeep/core/asset"
	"studentkeep/core/lifecycle"
	"studentkeep/core/storage"
)

// ReadCurrent returns the current projection for id.
func (l *Ledger) ReadCurrent(id string) (asset.Asset, error) {
	return l.readCurrent(lifecycle.OpReadCurrent, id)
}

// KeyedAsset pairs a store key with its projection, for range results.
type KeyedAsset struct {
	Key   string      `json:"key"`
	Asset asset.Asset `json:"record"`
}

// AssetIterator is a lazy, finite, restartable walk over projections.
// Callers must Close it, including on early termination.
type AssetIterator struct {
	iter   storage.Iterator
	filter func(asset.Asset) bool
	limit  int

	seen    int
	current KeyedAsset
	err     error
}

func (it *AssetIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		if it.limit > 0 && it.seen >= it.limit {
			return false
		}
		if !it.iter.Next() {
			it.err = it.iter.Error()
			return false
		}
		a, err := asset.Deserialize(it.iter.Value())
		if err != nil {
			// Skip records this build cannot decode; scans stay total.
			continue
		}
		if it.filter != nil && !it.filter(a) {
			continue
		}
		it.current = KeyedAsset{Key: it.iter.Key(), Asset: a}
		it.seen++
		return true
	}
}

func (it *AssetIterator) Key() string { return it.current.Key }

func (it *AssetIterator) Asset() asset.Asset { return it.current.Asset }

func (it *AssetIterator) Err() error { return it.err }

func (it *AssetIterator) Close() { it.iter.Release() }

// Drain materializes the rest of the iterator and closes it.
func (it *AssetIterator) Drain() ([]KeyedAsset, error) {
	defer it.Close()
	var out []KeyedAsset
	for it.Next() {
		out = append(out, it.current)
	}
	return out, it.Err()
}

// QueryByStatus scans projections whose current status equals status.
// Result order follows the store's key order and is otherwise unspecified.
func (l *Ledger) QueryByStatus(status lifecycle.Status) (*AssetIterator, error) {
	const op = lifecycle.OpQueryByStatus
	iter, err := l.store.RangeScan("", "")
	if err != nil {
		return nil, errStoreUnavailable(op, string(status), err)
	}
	return &AssetIterator{
		iter:   iter,
		filter: func(a asset.Asset) bool { return a.Status == status },
	}, nil
}

// QueryByKeyRange scans [startKey, endKey), capped at the configured result
// limit (DefaultRangeScanLimit unless overridden). The cap bounds resource
// use on wide scans; it is a hard stop, not a pagination cursor.
func (l *Ledger) QueryByKeyRange(startKey, endKey string) (*AssetIterator, error) {
	const op = lifecycle.OpQueryByKeyRange
	iter, err := l.store.RangeScan(startKey, endKey)
	if err != nil {
		return nil, errStoreUnavailable(op, startKey, err)
	}
	return &AssetIterator{iter: iter, limit: l.rangeLimit}, nil
}

// HistoryEntry is one committed write to an asset key, in commit order.
// Unlike Asset.Events this reflects every storage write including the
// initial create, sourced from the store's native history.
type HistoryEntry struct {
	TxRef     string          `json:"txId"`
	Timestamp time.Time       `json:"timestamp"`
	IsDelete  bool            `json:"isDelete"`
	Value     json.RawMessage `json:"value,omitempty"`
}

// GetHistory reconstructs every write ever made to id.
func (l *Ledger) GetHistory(id string) ([]HistoryEntry, error) {
	const op = lifecycle.OpGetHistory
	iter, err := l.store.History(id)
	if err != nil {
		return nil, errStoreUnavailable(op, id, err)
	}
	defer iter.Release()

	var out []HistoryEntry
	for iter.Next() {
		e := iter.Entry()
		out = append(out, HistoryEntry{
			TxRef:     e.TxRef,
			Timestamp: e.Timestamp,
			IsDelete:  e.IsDelete,
			Value:     json.RawMessage(e.Value),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, errStoreUnavailable(op, id, err)
	}
	if len(out) == 0 {
		return nil, errNotFound(op, id)
	}
	return out, nil
}
