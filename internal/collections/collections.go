// file: internal/collections/collections.go
// version: 1.0.0
// guid: 0d7c3e92-4b1a-4f8e-a6c5-2e9b7d1f3a48

package collections

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/jdfalk/pokedex/internal/metrics"
	"github.com/jdfalk/pokedex/internal/storage"
)

// Well-known substrate keys.
const (
	HistoryKey   = "pokemon_history"
	FavoritesKey = "pokemon_favorites"
)

// HistoryLimit caps the number of identifiers kept in the history.
const HistoryLimit = 20

// record is the persisted form of a collection. It has no timestamp; collections
// never expire.
type record struct {
	Value []string `json:"value"`
}

// Store keeps ordered identifier lists in a storage.Substrate. Read-modify-write
// operations are serialized by a mutex so concurrent toggles cannot lose updates.
type Store struct {
	mu  sync.Mutex
	sub storage.Substrate
}

// New creates a Store over sub.
func New(sub storage.Substrate) *Store {
	return &Store{sub: sub}
}

// GetAll returns the sequence stored under key. Absent or unreadable content
// yields an empty sequence.
func (s *Store) GetAll(key string) []string {
	raw, ok, err := s.sub.Read(key)
	if err != nil {
		log.Printf("[WARN] Failed to read %s: %v", key, err)
		return []string{}
	}
	if !ok {
		return []string{}
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Printf("[WARN] Failed to parse %s: %v", key, err)
		return []string{}
	}
	if rec.Value == nil {
		rec.Value = []string{}
	}
	observe(key, len(rec.Value))
	return rec.Value
}

// SetAll overwrites the sequence under key verbatim.
func (s *Store) SetAll(key string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(record{Value: ids})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.sub.Write(key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	observe(key, len(ids))
	return nil
}

// History returns the history, most recent first.
func (s *Store) History() []string { return s.GetAll(HistoryKey) }

// Favorites returns the favorites in insertion order.
func (s *Store) Favorites() []string { return s.GetAll(FavoritesKey) }

// AddToHistory moves id to the front of the history, dropping anything past
// HistoryLimit.
func (s *Store) AddToHistory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := slices.DeleteFunc(s.GetAll(HistoryKey), func(v string) bool { return v == id })
	history = append([]string{id}, history...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	return s.SetAll(HistoryKey, history)
}

// ToggleFavorite removes id from the favorites if present, otherwise appends
// it. It returns whether id is a favorite afterwards.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := s.GetAll(FavoritesKey)
	favorited := !slices.Contains(favorites, id)
	if favorited {
		favorites = append(favorites, id)
	} else {
		favorites = slices.DeleteFunc(favorites, func(v string) bool { return v == id })
	}
	if err := s.SetAll(FavoritesKey, favorites); err != nil {
		return !favorited, err
	}
	return favorited, nil
}

// IsFavorite reports whether id is in the favorites.
func (s *Store) IsFavorite(id string) bool {
	return slices.Contains(s.Favorites(), id)
}

// Remove deletes id from the collection stored under key.
func (s *Store) Remove(key, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.GetAll(key)
	kept := slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
	if len(kept) == len(ids) {
		return nil
	}
	return s.SetAll(key, kept)
}

// ClearCollection stores an empty sequence under key.
func (s *Store) ClearCollection(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SetAll(key, []string{})
}

func observe(key string, n int) {
	switch key {
	case HistoryKey:
		metrics.SetHistory(n)
	case FavoritesKey:
		metrics.SetFavorites(n)
	}
}
