// Package state provides the named-cell key-value storage layer the auction
// engine persists into. Values are JSON-encoded; keys are flat strings so a
// state snapshot can be inspected or migrated with ordinary tooling.
package state

import "errors"

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("state: key not found")

// Store is a flat key-value view. Implementations are not safe for
// concurrent use; the host serializes all access.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// TransactionalStore wraps command execution in an all-or-nothing boundary.
// Update commits every write made through the callback's Store when the
// callback returns nil, and discards all of them when it returns an error.
type TransactionalStore interface {
	Update(fn func(Store) error) error
	View(fn func(Store) error) error
	Close() error
}
