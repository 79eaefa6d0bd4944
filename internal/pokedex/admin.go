// file: internal/pokedex/admin.go
// version: 1.0.0
// guid: d4a81f6e-0b9c-4372-95e1-6c3f7a2d0b89

package pokedex

import (
	"fmt"
	"strconv"

	"github.com/jdfalk/pokedex/internal/cache"
)

type cacheAdmin interface {
	Prefix() string
	Entries() ([]cache.EntryInfo, error)
	Purge() (int, error)
	Remove(id string) error
}

func (s *Service) caches() []cacheAdmin {
	return []cacheAdmin{s.pokemon, s.abilities, s.species, s.evolution}
}

// CacheEntries lists every cached upstream record without evicting.
func (s *Service) CacheEntries() ([]cache.EntryInfo, error) {
	var all []cache.EntryInfo
	for _, c := range s.caches() {
		infos, err := c.Entries()
		if err != nil {
			return nil, err
		}
		all = append(all, infos...)
	}
	return all, nil
}

// PurgeCache removes expired and corrupt records and returns how many went.
func (s *Service) PurgeCache() (int, error) {
	total := 0
	for _, c := range s.caches() {
		n, err := c.Purge()
		total += n
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", c.Prefix(), err)
		}
	}
	return total, nil
}

// ForgetPokemon drops the cached creature under id together with every other
// key holding the same record. Matching is by content, so a corrupt entry under
// id does not strand its twin.
func (s *Service) ForgetPokemon(id string) error {
	id = Normalize(id)
	entries, err := s.pokemon.Entries()
	if err != nil {
		return err
	}

	targets := map[string]bool{id: true}
	for _, e := range entries {
		if e.Corrupt {
			continue
		}
		p, ok := s.pokemon.Peek(e.ID)
		if !ok {
			continue
		}
		num := strconv.Itoa(p.ID)
		if e.ID == id || p.Name == id || num == id {
			targets[e.ID] = true
			targets[p.Name] = true
			targets[num] = true
		}
	}

	for k := range targets {
		if k == "" {
			continue
		}
		if err := s.pokemon.Remove(k); err != nil {
			return err
		}
	}
	return nil
}

// ClearCache removes cached upstream records, leaving history and favorites.
func (s *Service) ClearCache() (int, error) {
	removed := 0
	for _, c := range s.caches() {
		infos, err := c.Entries()
		if err != nil {
			return removed, err
		}
		for _, info := range infos {
			if err := c.Remove(info.ID); err != nil {
				return removed, fmt.Errorf("remove %s: %w", info.Key, err)
			}
			removed++
		}
	}
	return removed, nil
}

// ClearAll wipes the whole storage substrate: caches, history and favorites.
func (s *Service) ClearAll() error {
	return s.pokemon.Clear()
}
