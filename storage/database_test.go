package storage

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type TestConfig struct {
	// ItemCount is the number of items written.
	ItemCount int
	// ValueSize is the size of every value in bytes.
	ValueSize int
	// ItemsRemoved is the number of items deleted after the write.
	ItemsRemoved int
	// ItemsIterated bounds the first iteration.
	ItemsIterated int
}

type KeyValue struct {
	Key   string
	Value []byte
}

func RandomBytes(t *testing.T, numBytes int) []byte {
	randomBytes := make([]byte, numBytes)
	_, err := rand.Read(randomBytes)
	require.NoError(t, err)
	return randomBytes
}

// GenericTest writes, deletes, reads and iterates random items through db.
func GenericTest(t *testing.T, db Database, config *TestConfig) {
	require := require.New(t)

	kvMap := make(map[string][]byte)
	for ii := 0; ii < config.ItemCount; ii++ {
		kvMap[string(RandomBytes(t, 32))] = RandomBytes(t, config.ValueSize)
	}
	require.NoError(db.Update(func(txn Transaction) error {
		for key, value := range kvMap {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	}))

	removed := make(map[string]bool)
	for key := range kvMap {
		if len(removed) >= config.ItemsRemoved {
			break
		}
		removed[key] = true
	}
	require.NoError(db.Update(func(txn Transaction) error {
		for key := range removed {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(db.View(func(txn Transaction) error {
		for key, value := range kvMap {
			got, err := txn.Get([]byte(key))
			if removed[key] {
				require.True(errors.Is(err, ErrKeyNotFound))
				require.Nil(got)
				continue
			}
			require.NoError(err)
			require.Equal(value, got)
		}
		return nil
	}))

	limited := Iterate(t, db, nil, config.ItemsIterated)
	require.Len(limited, config.ItemsIterated)
	require.True(ValidateKeyValueOrder(limited))

	all := Iterate(t, db, nil, -1)
	require.Len(all, len(kvMap)-len(removed))
	require.True(ValidateKeyValueOrder(all))
	for _, kv := range all {
		require.False(removed[kv.Key])
		require.Equal(kvMap[kv.Key], kv.Value)
	}
}

// Iterate returns up to limit items under prefix. A negative limit returns
// every item.
func Iterate(t *testing.T, db interface {
	View(func(Transaction) error) error
}, prefix []byte, limit int) []*KeyValue {
	require := require.New(t)

	kv := []*KeyValue{}
	require.NoError(db.View(func(txn Transaction) error {
		it, err := txn.GetIterator(prefix)
		require.NoError(err)
		defer it.Close()
		for it.Next() {
			if limit >= 0 && len(kv) >= limit {
				break
			}
			value, err := it.Value()
			require.NoError(err)
			kv = append(kv, &KeyValue{Key: string(it.Key()), Value: value})
		}
		return nil
	}))
	return kv
}

func ValidateKeyValueOrder(kv []*KeyValue) bool {
	for ii := 0; ii < len(kv)-1; ii++ {
		if bytes.Compare([]byte(kv[ii].Key), []byte(kv[ii+1].Key)) > 0 {
			return false
		}
	}
	return true
}
