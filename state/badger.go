package state

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
)

// BadgerStore is a TransactionalStore backed by BadgerDB. Badger's
// transactions provide the all-or-nothing commit boundary directly.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a durable store at dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// OpenBadgerInMemory opens a volatile badger instance, used by tests.
func OpenBadgerInMemory() (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// badgerTxn adapts a badger transaction to the Store interface.
type badgerTxn struct {
	txn *badger.Txn
}

func (b badgerTxn) Get(key string) ([]byte, error) {
	item, err := b.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (b badgerTxn) Set(key string, value []byte) error {
	return b.txn.Set([]byte(key), value)
}

func (b badgerTxn) Delete(key string) error {
	return b.txn.Delete([]byte(key))
}

// Update runs fn inside a read-write badger transaction.
func (s *BadgerStore) Update(fn func(Store) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(badgerTxn{txn: txn})
	})
}

// View runs fn inside a read-only badger transaction.
func (s *BadgerStore) View(fn func(Store) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		return fn(badgerTxn{txn: txn})
	})
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
