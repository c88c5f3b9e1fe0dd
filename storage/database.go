package storage

import "github.com/pkg/errors"

type DatabaseId byte

const (
	BADGERDB DatabaseId = 0
)

var ErrKeyNotFound = errors.New("key not found")

// Database is a key-value store behind a thin interface so that callers do
// not depend on a particular engine. Access goes through callbacks, as in
// BadgerDB:
// - Update() - read-write access
// - View()   - read-only access
// Setup() opens the store, Close() closes it and Erase() removes its files.
type Database interface {
	Id() DatabaseId
	Setup() error
	Update(func(Transaction) error) error
	View(func(Transaction) error) error
	Close() error
	Erase() error
}

// Transaction is valid only inside the Update or View callback that received
// it. Get returns ErrKeyNotFound for missing keys.
type Transaction interface {
	Set(key []byte, value []byte) error
	Delete(key []byte) error
	Get(key []byte) ([]byte, error)
	GetIterator(prefix []byte) (Iterator, error)
}

// Iterator walks the keys sharing a prefix in ascending order. A new Iterator
// points before the first key, so it is used as:
//
//	defer it.Close()
//	for it.Next() {
//		key := it.Key()
//		value, err := it.Value()
//		...
//	}
type Iterator interface {
	Value() ([]byte, error)
	Key() []byte
	Next() bool
	Close()
}
