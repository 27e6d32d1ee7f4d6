package storage

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Key layout inside LevelDB:
//
//	d:<key>             current projection bytes
//	h:<hex key>:<seq16> one HistoryEntry per committed write, seq zero-padded
//	s:<key>             next history sequence number
//
// History keys hex-encode the asset key so a key containing ':' can never
// alias another key's history prefix. A projection write and its history
// entry go into one leveldb batch, so a commit is all-or-nothing.
const (
	dataPrefix = "d:"
	histPrefix = "h:"
	seqPrefix  = "s:"
)

// LevelDB is the durable StateStore used by the node. Values are passed
// through the at-rest codec (see encrypt.go) before hitting disk.
type LevelDB struct {
	db    *leveldb.DB
	codec valueCodec
	now   func() time.Time

	mu sync.Mutex // serializes commits; leveldb batches are not transactional across calls
}

func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", path, err)
	}
	return &LevelDB{db: db, codec: newValueCodec(), now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *LevelDB) Get(key string) ([]byte, error) {
	raw, err := s.db.Get([]byte(dataPrefix+key), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.codec.decode(raw)
}

func (s *LevelDB) Has(key string) (bool, error) {
	return s.db.Has([]byte(dataPrefix+key), nil)
}

func (s *LevelDB) Put(key string, value []byte) error {
	return s.commit(key, value, false)
}

func (s *LevelDB) Delete(key string) error {
	return s.commit(key, nil, true)
}

func (s *LevelDB) commit(key string, value []byte, isDelete bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.nextSeq(key)
	if err != nil {
		return err
	}

	entry := HistoryEntry{
		TxRef:     uuid.NewString(),
		Timestamp: s.now(),
		IsDelete:  isDelete,
	}
	if !isDelete {
		encoded, err := s.codec.encode(value)
		if err != nil {
			return err
		}
		entry.Value = encoded
	}
	entryBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	if isDelete {
		batch.Delete([]byte(dataPrefix + key))
	} else {
		batch.Put([]byte(dataPrefix+key), entry.Value)
	}
	batch.Put([]byte(histKey(key, seq)), entryBytes)
	batch.Put([]byte(seqPrefix+key), []byte(strconv.FormatUint(seq+1, 10)))
	return s.db.Write(batch, nil)
}

func (s *LevelDB) nextSeq(key string) (uint64, error) {
	raw, err := s.db.Get([]byte(seqPrefix+key), nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(raw), 10, 64)
}

func histKey(key string, seq uint64) string {
	return fmt.Sprintf("%s%s:%016d", histPrefix, hex.EncodeToString([]byte(key)), seq)
}

// RangeScan walks projections in [startKey, endKey) in key order.
func (s *LevelDB) RangeScan(startKey, endKey string) (Iterator, error) {
	start := []byte(dataPrefix + startKey)
	var limit []byte
	if endKey == "" {
		limit = util.BytesPrefix([]byte(dataPrefix)).Limit
	} else {
		limit = []byte(dataPrefix + endKey)
	}
	iter := s.db.NewIterator(&util.Range{Start: start, Limit: limit}, nil)
	return &levelIterator{iter: iter, codec: s.codec}, nil
}

func (s *LevelDB) History(key string) (HistoryIterator, error) {
	prefix := histPrefix + hex.EncodeToString([]byte(key)) + ":"
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	return &levelHistoryIterator{iter: iter, codec: s.codec}, nil
}

func (s *LevelDB) Close() error {
	return s.db.Close()
}

type levelIterator struct {
	iter interface {
		Next() bool
		Key() []byte
		Value() []byte
		Error() error
		Release()
	}
	codec valueCodec

	key   string
	value []byte
	err   error
}

func (it *levelIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.iter.Next() {
		return false
	}
	// leveldb reuses key/value buffers between Next calls.
	it.key = string(it.iter.Key()[len(dataPrefix):])
	decoded, err := it.codec.decode(append([]byte(nil), it.iter.Value()...))
	if err != nil {
		it.err = err
		return false
	}
	it.value = decoded
	return true
}

func (it *levelIterator) Key() string { return it.key }

func (it *levelIterator) Value() []byte { return it.value }

func (it *levelIterator) Release() { it.iter.Release() }

func (it *levelIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}

type levelHistoryIterator struct {
	iter interface {
		Next() bool
		Value() []byte
		Error() error
		Release()
	}
	codec valueCodec

	entry HistoryEntry
	err   error
}

func (it *levelHistoryIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.iter.Next() {
		return false
	}
	var entry HistoryEntry
	if err := json.Unmarshal(it.iter.Value(), &entry); err != nil {
		it.err = fmt.Errorf("corrupt history entry: %w", err)
		return false
	}
	if len(entry.Value) > 0 {
		decoded, err := it.codec.decode(entry.Value)
		if err != nil {
			it.err = err
			return false
		}
		entry.Value = decoded
	}
	it.entry = entry
	return true
}

func (it *levelHistoryIterator) Entry() HistoryEntry { return it.entry }

func (it *levelHistoryIterator) Release() { it.iter.Release() }
func (it *levelHistoryIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}
