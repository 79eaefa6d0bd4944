// file: internal/storage/storage.go
// version: 1.0.0
// guid: 26d8b702-0221-4db7-9dd2-12a0be1b181d

package storage

import (
	"errors"
	"fmt"
	"log"
)

// Substrate is a synchronous key/string store. The cache and collection stores
// serialize their values to strings before they reach it.
//
// Implementations must be safe for concurrent use.
type Substrate interface {
	// Read returns the stored string and whether the key exists.
	Read(key string) (string, bool, error)
	Write(key, value string) error
	Delete(key string) error
	// DeleteAll wipes every key in the substrate, not only the caller's.
	DeleteAll() error
	// Keys lists keys starting with prefix in ascending order.
	Keys(prefix string) ([]string, error)
	Close() error
}

var (
	// ErrSQLiteDisabled is returned when SQLite is requested without the safety flag.
	ErrSQLiteDisabled = errors.New("storage: sqlite3 is not enabled")

	// ErrUnsupportedType is returned for unknown substrate types.
	ErrUnsupportedType = errors.New("storage: unsupported database type")
)

// Open selects and opens a substrate. PebbleDB is the default; SQLite must be
// explicitly enabled; "memory" keeps everything in process and loses it on exit.
func Open(dbType, path string, enableSQLite bool) (Substrate, error) {
	switch dbType {
	case "pebble", "":
		s, err := NewPebbleStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
		return s, nil
	case "sqlite", "sqlite3":
		if !enableSQLite {
			return nil, fmt.Errorf("%w: enable it with --enable-sqlite3-i-know-the-risks or set 'enable_sqlite3_i_know_the_risks: true' in your config file", ErrSQLiteDisabled)
		}
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return s, nil
	case "memory":
		log.Printf("[WARN] Using in-memory storage; history, favorites and cache are lost on exit")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: pebble, sqlite, memory)", ErrUnsupportedType, dbType)
	}
}
