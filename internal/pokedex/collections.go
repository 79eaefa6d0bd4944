// file: internal/pokedex/collections.go
// version: 1.0.0
// guid: 2f7b5c08-9a3e-4d16-8c71-e4b0a6d9f352

package pokedex

import (
	"github.com/jdfalk/pokedex/internal/collections"
)

// History returns recently viewed names, most recent first.
func (s *Service) History() []string {
	return s.lists.History()
}

// Favorites returns favorited identifiers.
func (s *Service) Favorites() []string {
	return s.lists.Favorites()
}

// IsFavorite reports whether id is favorited.
func (s *Service) IsFavorite(id string) bool {
	return s.lists.IsFavorite(Normalize(id))
}

// ToggleFavorite flips id's membership and returns the new state.
func (s *Service) ToggleFavorite(id string) (bool, error) {
	return s.lists.ToggleFavorite(Normalize(id))
}

// RemoveHistory deletes one history entry.
func (s *Service) RemoveHistory(id string) error {
	return s.lists.Remove(collections.HistoryKey, Normalize(id))
}

// RemoveFavorite deletes one favorite.
func (s *Service) RemoveFavorite(id string) error {
	return s.lists.Remove(collections.FavoritesKey, Normalize(id))
}

// ClearHistory empties the history.
func (s *Service) ClearHistory() error {
	return s.lists.ClearCollection(collections.HistoryKey)
}

// ClearFavorites empties the favorites.
func (s *Service) ClearFavorites() error {
	return s.lists.ClearCollection(collections.FavoritesKey)
}
