package lib

import (
	"github.com/deso-protocol/pearldiver/storage"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// solutionPrefix namespaces solved nonces in the database.
var solutionPrefix = []byte("solution/")

// SolutionStore persists solved nonces so that repeated requests across runs
// are answered without searching. A nonce is stored as bytes, five trits per
// byte, prefixed with its trit count.
type SolutionStore struct {
	db        storage.Database
	namespace *storage.Namespace
}

// OpenSolutionStore opens the badger database in dataDir.
func OpenSolutionStore(dataDir string) (*SolutionStore, error) {
	db := storage.NewBadgerDatabase(storage.DefaultBadgerOptions(dataDir), false)
	if err := db.Setup(); err != nil {
		return nil, errors.Wrapf(err, "OpenSolutionStore: ")
	}
	glog.V(1).Infof("OpenSolutionStore: Opened solution store in %v", dataDir)
	return NewSolutionStore(db), nil
}

// NewSolutionStore uses db, which must already be set up.
func NewSolutionStore(db storage.Database) *SolutionStore {
	return &SolutionStore{
		db:        db,
		namespace: storage.NewNamespace(db, solutionPrefix),
	}
}

func (store *SolutionStore) Put(key SolutionKey, nonce trinary.Trits) error {
	if len(nonce) > 255 {
		return errors.Wrapf(trinary.ErrInvalidLength, "SolutionStore.Put: nonce of %d trits", len(nonce))
	}
	value := append([]byte{byte(len(nonce))}, trinary.TritsToBytes(nonce)...)
	err := store.namespace.Update(func(txn storage.Transaction) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return errors.Wrapf(err, "SolutionStore.Put: ")
	}
	return nil
}

// Get returns the stored nonce and false when key is unknown.
func (store *SolutionStore) Get(key SolutionKey) (trinary.Trits, bool, error) {
	var value []byte
	err := store.namespace.View(func(txn storage.Transaction) error {
		var err error
		value, err = txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "SolutionStore.Get: ")
	}
	if len(value) == 0 {
		return nil, false, errors.Wrapf(trinary.ErrInvalidLength, "SolutionStore.Get: empty value for %v", key)
	}

	nonce, err := trinary.BytesToTrits(value[1:], int(value[0]))
	if err != nil {
		return nil, false, errors.Wrapf(err, "SolutionStore.Get: ")
	}
	return nonce, true, nil
}

func (store *SolutionStore) Delete(key SolutionKey) error {
	return store.namespace.Update(func(txn storage.Transaction) error {
		return txn.Delete([]byte(key))
	})
}

// Count returns the number of stored solutions.
func (store *SolutionStore) Count() (int, error) {
	count := 0
	err := store.namespace.View(func(txn storage.Transaction) error {
		it, err := txn.GetIterator(nil)
		if err != nil {
			return err
		}
		defer it.Close()
		for it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "SolutionStore.Count: ")
	}
	return count, nil
}

func (store *SolutionStore) Close() error {
	return store.db.Close()
}
