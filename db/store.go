// Package db provides the durable key-value storage behind the identity and
// chat-history keys. Values are written whole; a Set is visible to the next Get
// as soon as it returns.
package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted
var ErrNotFound = errors.New("key not found")

// Store is a synchronous string key-value store
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Open opens the store for the configured backend
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		sqlite, err := New(path)
		if err != nil {
			return nil, err
		}
		return sqlite, nil
	case BackendBadger:
		bs, err := OpenBadger(path)
		if err != nil {
			return nil, err
		}
		return bs, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", backend)
	}
}
