package storage

import (
	"github.com/deso-protocol/go-deadlock"
)

// Namespace is a view of a Database in which every key is prefixed. Updates
// through one Namespace are serialized; views run concurrently.
type Namespace struct {
	mtx    *deadlock.RWMutex
	db     Database
	prefix []byte
}

func NewNamespace(db Database, prefix []byte) *Namespace {
	return &Namespace{
		mtx:    &deadlock.RWMutex{},
		db:     db,
		prefix: append([]byte{}, prefix...),
	}
}

// Nest returns a Namespace below ns. It shares the lock of ns.
func (ns *Namespace) Nest(prefix []byte) *Namespace {
	nested := make([]byte, 0, len(ns.prefix)+len(prefix))
	nested = append(append(nested, ns.prefix...), prefix...)
	return &Namespace{mtx: ns.mtx, db: ns.db, prefix: nested}
}

func (ns *Namespace) Prefix() []byte {
	return append([]byte{}, ns.prefix...)
}

func (ns *Namespace) Update(fn func(Transaction) error) error {
	ns.mtx.Lock()
	defer ns.mtx.Unlock()

	return ns.db.Update(func(txn Transaction) error {
		return fn(&prefixedTransaction{txn: txn, prefix: ns.prefix})
	})
}

func (ns *Namespace) View(fn func(Transaction) error) error {
	ns.mtx.RLock()
	defer ns.mtx.RUnlock()

	return ns.db.View(func(txn Transaction) error {
		return fn(&prefixedTransaction{txn: txn, prefix: ns.prefix})
	})
}

type prefixedTransaction struct {
	txn    Transaction
	prefix []byte
}

func (ptx *prefixedTransaction) key(key []byte) []byte {
	prefixed := make([]byte, 0, len(ptx.prefix)+len(key))
	return append(append(prefixed, ptx.prefix...), key...)
}

func (ptx *prefixedTransaction) Set(key []byte, value []byte) error {
	return ptx.txn.Set(ptx.key(key), value)
}

func (ptx *prefixedTransaction) Delete(key []byte) error {
	return ptx.txn.Delete(ptx.key(key))
}

func (ptx *prefixedTransaction) Get(key []byte) ([]byte, error) {
	return ptx.txn.Get(ptx.key(key))
}

// GetIterator returns keys with the namespace prefix stripped.
func (ptx *prefixedTransaction) GetIterator(prefix []byte) (Iterator, error) {
	it, err := ptx.txn.GetIterator(ptx.key(prefix))
	if err != nil {
		return nil, err
	}
	return &prefixedIterator{Iterator: it, strip: len(ptx.prefix)}, nil
}

type prefixedIterator struct {
	Iterator
	strip int
}

func (pit *prefixedIterator) Key() []byte {
	return pit.Iterator.Key()[pit.strip:]
}
