package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Item is a single named cell holding one JSON-encoded value of type T.
type Item[T any] struct {
	key string
}

// NewItem creates an Item bound to a storage key.
func NewItem[T any](key string) Item[T] {
	return Item[T]{key: key}
}

// Key returns the storage key the item is bound to.
func (it Item[T]) Key() string { return it.key }

// Load reads the cell, failing if it has never been saved.
func (it Item[T]) Load(s Store) (T, error) {
	var v T
	raw, err := s.Get(it.key)
	if err != nil {
		return v, fmt.Errorf("load %q: %w", it.key, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %q: %w", it.key, err)
	}
	return v, nil
}

// MayLoad reads the cell, returning (nil, nil) if it has never been saved.
func (it Item[T]) MayLoad(s Store) (*T, error) {
	raw, err := s.Get(it.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", it.key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %q: %w", it.key, err)
	}
	return &v, nil
}

// Save writes the cell.
func (it Item[T]) Save(s Store, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", it.key, err)
	}
	return s.Set(it.key, raw)
}

// Map is a keyed collection of JSON-encoded values of type T, stored one
// entry per storage key under a shared prefix.
type Map[T any] struct {
	prefix string
}

// NewMap creates a Map bound to a key prefix.
func NewMap[T any](prefix string) Map[T] {
	return Map[T]{prefix: prefix}
}

// Key returns the storage key for a map entry.
func (m Map[T]) Key(key string) string {
	return m.prefix + "/" + key
}

// MayLoad reads an entry, returning (nil, nil) if absent.
func (m Map[T]) MayLoad(s Store, key string) (*T, error) {
	raw, err := s.Get(m.Key(key))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", m.Key(key), err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %q: %w", m.Key(key), err)
	}
	return &v, nil
}

// Load reads an entry, failing if absent.
func (m Map[T]) Load(s Store, key string) (T, error) {
	var v T
	p, err := m.MayLoad(s, key)
	if err != nil {
		return v, err
	}
	if p == nil {
		return v, fmt.Errorf("load %q: %w", m.Key(key), ErrNotFound)
	}
	return *p, nil
}

// Save writes an entry.
func (m Map[T]) Save(s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", m.Key(key), err)
	}
	return s.Set(m.Key(key), raw)
}

// Remove deletes an entry. Removing an absent entry is not an error.
func (m Map[T]) Remove(s Store, key string) error {
	return s.Delete(m.Key(key))
}
