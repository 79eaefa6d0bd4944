// file: internal/storage/pebble.go
// version: 1.0.0
// guid: 6dc59a19-99ed-4f5d-b43a-21400f160ae2

package storage

import (
	"errors"
	"fmt"
	"log"

	"github.com/cockroachdb/pebble/v2"
)

// PebbleStore implements Substrate on PebbleDB.
//
// Key Schema:
// - cache_pokemon_<name-or-id>   -> {"value": Pokemon, "timestamp": ms}
// - cache_ability_<name-or-id>   -> {"value": Ability, "timestamp": ms}
// - cache_species_<name-or-id>   -> {"value": Species, "timestamp": ms}
// - cache_evolution_<id>         -> {"value": EvolutionChain, "timestamp": ms}
// - pokemon_history              -> {"value": [names]}
// - pokemon_favorites            -> {"value": [names]}
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens or creates a PebbleDB at path.
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	log.Printf("[DEBUG] PebbleDB opened at %s (format version: %s)", path, db.FormatMajorVersion())
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Read(key string) (string, bool, error) {
	value, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pebble get %q: %w", key, err)
	}
	// value is only valid until closer is closed
	s := string(value)
	if err := closer.Close(); err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (p *PebbleStore) Write(key, value string) error {
	if err := p.db.Set([]byte(key), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %q: %w", key, err)
	}
	return nil
}

func (p *PebbleStore) Delete(key string) error {
	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete %q: %w", key, err)
	}
	return nil
}

func (p *PebbleStore) DeleteAll() error {
	keys, err := p.Keys("")
	if err != nil {
		return err
	}
	batch := p.db.NewBatch()
	defer batch.Close()
	for _, k := range keys {
		if err := batch.Delete([]byte(k), nil); err != nil {
			return fmt.Errorf("pebble batch delete %q: %w", k, err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("pebble commit: %w", err)
	}
	return nil
}

func (p *PebbleStore) Keys(prefix string) ([]string, error) {
	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = append([]byte(prefix), 0xFF)
	}
	iter, err := p.db.NewIter(iterOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterator error: %w", err)
	}
	return keys, nil
}

// Close closes the underlying PebbleDB.
func (p *PebbleStore) Close() error {
	return p.db.Close()
}
