// file: internal/pokedex/errors.go
// version: 1.0.0
// guid: 7c0e4a19-b5d2-4f83-a6e7-1d9f3b8c2a40

package pokedex

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jdfalk/pokedex/internal/pokeapi"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrNotFound matches any lookup that found no record upstream.
var ErrNotFound = pokeapi.ErrNotFound

// maxSuggestions bounds NotFoundError.Suggestions.
const maxSuggestions = 3

// NotFoundError reports an identifier with no upstream record, with close
// matches among names the client has already seen.
type NotFoundError struct {
	Identifier  string
	Suggestions []string
	err         error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%q not found", e.Identifier)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.err }

func wrapNotFound(id string, err error, suggestions []string) error {
	if !errors.Is(err, pokeapi.ErrNotFound) {
		return err
	}
	return &NotFoundError{Identifier: strings.TrimSpace(id), Suggestions: suggestions, err: err}
}

func (s *Service) notFound(id string, err error) error {
	if !errors.Is(err, pokeapi.ErrNotFound) {
		return err
	}
	return wrapNotFound(id, err, Suggest(Normalize(id), s.KnownNames()))
}

// KnownNames returns creature names from the history, favorites and cache,
// without duplicates or numeric ids.
func (s *Service) KnownNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if n == "" || seen[n] || Normalize(n) != n || isNumeric(n) {
			return
		}
		seen[n] = true
		names = append(names, n)
	}
	for _, n := range s.History() {
		add(n)
	}
	for _, n := range s.Favorites() {
		add(n)
	}
	if infos, err := s.pokemon.Entries(); err == nil {
		for _, info := range infos {
			if !info.Corrupt && !info.Expired {
				add(info.ID)
			}
		}
	}
	return names
}

// Suggest ranks candidates that either contain query as a fuzzy subsequence
// or are within a small edit distance of it.
func Suggest(query string, candidates []string) []string {
	if query == "" {
		return nil
	}
	type scored struct {
		name string
		dist int
	}
	var matches []scored
	seen := make(map[string]bool)

	for _, r := range fuzzy.RankFindNormalizedFold(query, candidates) {
		matches = append(matches, scored{r.Target, r.Distance})
		seen[r.Target] = true
	}
	limit := max(2, len(query)/3)
	for _, c := range candidates {
		if seen[c] || c == query {
			continue
		}
		if d := fuzzy.LevenshteinDistance(query, c); d <= limit {
			matches = append(matches, scored{c, d})
			seen[c] = true
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.name)
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
