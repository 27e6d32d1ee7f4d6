package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]StateStore {
	t.Helper()
	ldb, err := OpenLevelDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })
	return map[string]StateStore{
		"leveldb": ldb,
		"memory":  NewMemory(),
	}
}

func TestPutGetHas(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get("A1")
			require.ErrorIs(t, err, ErrKeyNotFound)

			ok, err := st.Has("A1")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, st.Put("A1", []byte(`{"id":"A1"}`)))
			got, err := st.Get("A1")
			require.NoError(t, err)
			require.JSONEq(t, `{"id":"A1"}`, string(got))

			ok, err = st.Has("A1")
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}

func TestHistoryCommitOrder(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Put("A1", []byte("v0")))
			require.NoError(t, st.Put("A1", []byte("v1")))
			require.NoError(t, st.Put("A1", []byte("v2")))
			// Writes to other keys never leak into this key's history.
			require.NoError(t, st.Put("A2", []byte("other")))

			iter, err := st.History("A1")
			require.NoError(t, err)
			defer iter.Release()

			var values []string
			var refs []string
			var last time.Time
			for iter.Next() {
				e := iter.Entry()
				values = append(values, string(e.Value))
				refs = append(refs, e.TxRef)
				require.False(t, e.IsDelete)
				require.False(t, e.Timestamp.Before(last), "timestamps must be non-decreasing")
				last = e.Timestamp
			}
			require.NoError(t, iter.Error())
			require.Equal(t, []string{"v0", "v1", "v2"}, values)
			// One unique transaction reference per commit.
			require.NotEqual(t, refs[0], refs[1])
			require.NotEqual(t, refs[1], refs[2])
		})
	}
}

func TestHistoryKeyIsolation(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			// "A1:x" must not alias into the history prefix of "A1".
			require.NoError(t, st.Put("A1", []byte("v-a1")))
			require.NoError(t, st.Put("A1:x", []byte("v-a1x")))

			iter, err := st.History("A1")
			require.NoError(t, err)
			defer iter.Release()

			var values []string
			for iter.Next() {
				values = append(values, string(iter.Entry().Value))
			}
			require.NoError(t, iter.Error())
			require.Equal(t, []string{"v-a1"}, values, "history of one key must not include writes to another")
		})
	}
}

func TestHistoryRecordsDelete(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Put("A1", []byte("v0")))
			require.NoError(t, st.Delete("A1"))

			_, err := st.Get("A1")
			require.ErrorIs(t, err, ErrKeyNotFound)

			iter, err := st.History("A1")
			require.NoError(t, err)
			defer iter.Release()

			require.True(t, iter.Next())
			require.False(t, iter.Entry().IsDelete)
			require.True(t, iter.Next())
			require.True(t, iter.Entry().IsDelete)
			require.Empty(t, iter.Entry().Value)
			require.False(t, iter.Next())
		})
	}
}

func TestRangeScan(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"A1", "A2", "A3", "B1"} {
				require.NoError(t, st.Put(key, []byte("v-"+key)))
			}

			iter, err := st.RangeScan("A1", "A3")
			require.NoError(t, err)
			var keys []string
			for iter.Next() {
				keys = append(keys, iter.Key())
			}
			iter.Release()
			require.NoError(t, iter.Error())
			require.Equal(t, []string{"A1", "A2"}, keys, "range is half-open")

			// Unbounded scan sees every key in order.
			iter, err = st.RangeScan("", "")
			require.NoError(t, err)
			keys = nil
			for iter.Next() {
				keys = append(keys, iter.Key())
			}
			iter.Release()
			require.NoError(t, iter.Error())
			require.Equal(t, []string{"A1", "A2", "A3", "B1"}, keys)
		})
	}
}

func TestRangeScanRestartable(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Put("A1", []byte("v")))

			first, err := st.RangeScan("", "")
			require.NoError(t, err)
			require.True(t, first.Next())
			first.Release() // early termination

			second, err := st.RangeScan("", "")
			require.NoError(t, err)
			defer second.Release()
			require.True(t, second.Next(), "a fresh scan restarts from the beginning")
			require.Equal(t, "A1", second.Key())
		})
	}
}

func TestEncryptedAtRest(t *testing.T) {
	// 32 zero bytes, base64.
	t.Setenv("STUDENTKEEP_DEK", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")

	ldb, err := OpenLevelDB(t.TempDir())
	require.NoError(t, err)
	defer ldb.Close()

	require.NoError(t, ldb.Put("A1", []byte(`{"id":"A1"}`)))
	got, err := ldb.Get("A1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"A1"}`, string(got))

	iter, err := ldb.History("A1")
	require.NoError(t, err)
	defer iter.Release()
	require.True(t, iter.Next())
	require.JSONEq(t, `{"id":"A1"}`, string(iter.Entry().Value))
}
