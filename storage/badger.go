package storage

import (
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

type BadgerDatabase struct {
	db   *badger.DB
	opts badger.Options
	// useWriteBatch routes the writes of Update through a badger.WriteBatch
	// flushed after the callback returns. Reads inside the same callback do
	// not observe those writes.
	useWriteBatch bool
}

func NewBadgerDatabase(opts badger.Options, useWriteBatch bool) *BadgerDatabase {
	return &BadgerDatabase{
		opts:          opts,
		useWriteBatch: useWriteBatch,
	}
}

func (bdb *BadgerDatabase) Id() DatabaseId {
	return BADGERDB
}

func (bdb *BadgerDatabase) Setup() error {
	db, err := badger.Open(bdb.opts)
	if err != nil {
		return errors.Wrapf(err, "Setup: dir %v", bdb.opts.Dir)
	}
	bdb.db = db
	return nil
}

func (bdb *BadgerDatabase) Update(fn func(Transaction) error) error {
	var wb *badger.WriteBatch
	if bdb.useWriteBatch {
		wb = bdb.db.NewWriteBatch()
		defer wb.Cancel()
	}

	err := bdb.db.Update(func(txn *badger.Txn) error {
		return fn(NewBadgerTransaction(txn, wb))
	})
	if err != nil {
		return errors.Wrapf(err, "Update: ")
	}

	if wb != nil {
		if err := wb.Flush(); err != nil {
			return errors.Wrapf(err, "Update: Problem flushing write batch")
		}
	}
	return nil
}

func (bdb *BadgerDatabase) View(fn func(Transaction) error) error {
	return bdb.db.View(func(txn *badger.Txn) error {
		return fn(NewBadgerTransaction(txn, nil))
	})
}

func (bdb *BadgerDatabase) Close() error {
	if bdb.db == nil {
		return nil
	}
	err := bdb.db.Close()
	bdb.db = nil
	return err
}

// Erase removes the database directory. The database must be closed.
func (bdb *BadgerDatabase) Erase() error {
	if bdb.opts.InMemory || bdb.opts.Dir == "" {
		return nil
	}
	return os.RemoveAll(bdb.opts.Dir)
}

type BadgerTransaction struct {
	txn *badger.Txn
	wb  *badger.WriteBatch
}

func NewBadgerTransaction(txn *badger.Txn, wb *badger.WriteBatch) *BadgerTransaction {
	return &BadgerTransaction{
		txn: txn,
		wb:  wb,
	}
}

func (btx *BadgerTransaction) Set(key []byte, value []byte) error {
	if btx.wb != nil {
		return btx.wb.Set(key, value)
	}
	return btx.txn.Set(key, value)
}

func (btx *BadgerTransaction) Delete(key []byte) error {
	if btx.wb != nil {
		return btx.wb.Delete(key)
	}
	return btx.txn.Delete(key)
}

func (btx *BadgerTransaction) Get(key []byte) ([]byte, error) {
	item, err := btx.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(ErrKeyNotFound, "Get: key %x", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Get: ")
	}
	return item.ValueCopy(nil)
}

func (btx *BadgerTransaction) GetIterator(prefix []byte) (Iterator, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := btx.txn.NewIterator(opts)
	it.Seek(prefix)
	return &BadgerIterator{it: it, prefix: prefix}, nil
}

type BadgerIterator struct {
	it          *badger.Iterator
	prefix      []byte
	initialized bool
}

func (bit *BadgerIterator) Value() ([]byte, error) {
	return bit.it.Item().ValueCopy(nil)
}

func (bit *BadgerIterator) Key() []byte {
	return bit.it.Item().KeyCopy(nil)
}

func (bit *BadgerIterator) Next() bool {
	if bit.initialized {
		bit.it.Next()
	}
	bit.initialized = true
	return bit.it.ValidForPrefix(bit.prefix)
}

func (bit *BadgerIterator) Close() {
	bit.it.Close()
}

// DefaultBadgerOptions are the badger defaults for dir with badger's own
// logging disabled.
func DefaultBadgerOptions(dir string) badger.Options {
	return badger.DefaultOptions(dir).WithLogger(nil)
}

// InMemoryBadgerOptions keep everything in memory. Erase is a no-op.
func InMemoryBadgerOptions() badger.Options {
	return badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
}
