// file: internal/testutil/mock_pokeapi.go
// version: 2.0.0
// guid: c3d4e5f6-a7b8-9012-cdef-345678901abc

package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockPokeAPI is an httptest.Server that mimics PokeAPI and counts requests.
type MockPokeAPI struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// NewMockPokeAPI serves responses keyed by path suffix (e.g. "/pokemon/25").
// Unknown paths get a 404. The server is closed when the test ends.
func NewMockPokeAPI(t *testing.T, responses map[string]string) *MockPokeAPI {
	t.Helper()
	m := &MockPokeAPI{hits: make(map[string]int)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimRight(r.URL.Path, "/")
		m.mu.Lock()
		m.hits[path]++
		m.mu.Unlock()

		for suffix, body := range responses {
			if strings.HasSuffix(path, suffix) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// Hits returns how many requests ended with suffix.
func (m *MockPokeAPI) Hits(suffix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for path, c := range m.hits {
		if strings.HasSuffix(path, suffix) {
			n += c
		}
	}
	return n
}

// TotalHits returns the number of requests served.
func (m *MockPokeAPI) TotalHits() int {
	return m.Hits("")
}

// DefaultResponses wires every fixture in this file under its PokeAPI path.
func DefaultResponses() map[string]string {
	return map[string]string{
		"/pokemon/pikachu":         PikachuResponse,
		"/pokemon/25":              PikachuResponse,
		"/pokemon/charmander":      CharmanderResponse,
		"/pokemon/4":               CharmanderResponse,
		"/pokemon/bulbasaur":       BulbasaurResponse,
		"/pokemon/1":               BulbasaurResponse,
		"/pokemon/diglett":         DiglettResponse,
		"/pokemon/50":              DiglettResponse,
		"/ability/static":          StaticAbilityResponse,
		"/ability/9":               StaticAbilityResponse,
		"/pokemon-species/25":      PikachuSpeciesResponse,
		"/pokemon-species/pikachu": PikachuSpeciesResponse,
		"/evolution-chain/10":      PikachuEvolutionResponse,
	}
}

// PikachuResponse is /pokemon/25.
const PikachuResponse = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"base_experience": 112,
	"types": [{"slot": 1, "type": {"name": "electric", "url": "https://pokeapi.co/api/v2/type/13/"}}],
	"stats": [
		{"base_stat": 35, "effort": 0, "stat": {"name": "hp"}},
		{"base_stat": 55, "effort": 0, "stat": {"name": "attack"}},
		{"base_stat": 40, "effort": 0, "stat": {"name": "defense"}},
		{"base_stat": 50, "effort": 0, "stat": {"name": "special-attack"}},
		{"base_stat": 50, "effort": 0, "stat": {"name": "special-defense"}},
		{"base_stat": 90, "effort": 2, "stat": {"name": "speed"}}
	],
	"sprites": {"front_default": "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png"},
	"species": {"name": "pikachu", "url": "https://pokeapi.co/api/v2/pokemon-species/25/"},
	"abilities": [
		{"ability": {"name": "static", "url": "https://pokeapi.co/api/v2/ability/9/"}, "is_hidden": false, "slot": 1},
		{"ability": {"name": "lightning-rod", "url": "https://pokeapi.co/api/v2/ability/31/"}, "is_hidden": true, "slot": 3}
	]
}`

// CharmanderResponse is /pokemon/4.
const CharmanderResponse = `{
	"id": 4,
	"name": "charmander",
	"types": [{"slot": 1, "type": {"name": "fire"}}],
	"stats": [
		{"base_stat": 39, "stat": {"name": "hp"}},
		{"base_stat": 52, "stat": {"name": "attack"}},
		{"base_stat": 43, "stat": {"name": "defense"}},
		{"base_stat": 60, "stat": {"name": "special-attack"}},
		{"base_stat": 50, "stat": {"name": "special-defense"}},
		{"base_stat": 65, "stat": {"name": "speed"}}
	],
	"sprites": {"front_default": "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/4.png"},
	"species": {"name": "charmander", "url": "https://pokeapi.co/api/v2/pokemon-species/4/"},
	"abilities": [{"ability": {"name": "blaze"}, "is_hidden": false, "slot": 1}]
}`

// BulbasaurResponse is /pokemon/1.
const BulbasaurResponse = `{
	"id": 1,
	"name": "bulbasaur",
	"types": [
		{"slot": 1, "type": {"name": "grass"}},
		{"slot": 2, "type": {"name": "poison"}}
	],
	"stats": [
		{"base_stat": 45, "stat": {"name": "hp"}},
		{"base_stat": 49, "stat": {"name": "attack"}},
		{"base_stat": 49, "stat": {"name": "defense"}},
		{"base_stat": 65, "stat": {"name": "special-attack"}},
		{"base_stat": 65, "stat": {"name": "special-defense"}},
		{"base_stat": 45, "stat": {"name": "speed"}}
	],
	"sprites": {"front_default": "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png"},
	"species": {"name": "bulbasaur", "url": "https://pokeapi.co/api/v2/pokemon-species/1/"},
	"abilities": [{"ability": {"name": "overgrow"}, "is_hidden": false, "slot": 1}]
}`

// DiglettResponse is /pokemon/50.
const DiglettResponse = `{
	"id": 50,
	"name": "diglett",
	"types": [{"slot": 1, "type": {"name": "ground"}}],
	"stats": [
		{"base_stat": 10, "stat": {"name": "hp"}},
		{"base_stat": 55, "stat": {"name": "attack"}},
		{"base_stat": 25, "stat": {"name": "defense"}},
		{"base_stat": 35, "stat": {"name": "special-attack"}},
		{"base_stat": 45, "stat": {"name": "special-defense"}},
		{"base_stat": 95, "stat": {"name": "speed"}}
	],
	"sprites": {"front_default": ""},
	"species": {"name": "diglett", "url": "https://pokeapi.co/api/v2/pokemon-species/50/"},
	"abilities": [{"ability": {"name": "sand-veil"}, "is_hidden": false, "slot": 1}]
}`

// StaticAbilityResponse is /ability/9.
const StaticAbilityResponse = `{
	"id": 9,
	"name": "static",
	"effect_entries": [
		{"effect": "Whenever a move makes contact with this Pokémon, the move's user has a 30% chance of being paralyzed.", "short_effect": "Has a 30% chance of paralyzing attacking Pokémon on contact.", "language": {"name": "en"}},
		{"effect": "Wenn eine Attacke dieses Pokémon berührt, wird der Angreifer mit 30% Wahrscheinlichkeit paralysiert.", "short_effect": "30% Chance, Angreifer bei Berührung zu paralysieren.", "language": {"name": "de"}}
	],
	"pokemon": [
		{"is_hidden": false, "pokemon": {"name": "pikachu", "url": "https://pokeapi.co/api/v2/pokemon/25/"}}
	]
}`

// PikachuSpeciesResponse is /pokemon-species/25.
const PikachuSpeciesResponse = `{
	"id": 25,
	"name": "pikachu",
	"evolution_chain": {"url": "https://pokeapi.co/api/v2/evolution-chain/10/"}
}`

// PikachuEvolutionResponse is /evolution-chain/10.
const PikachuEvolutionResponse = `{
	"id": 10,
	"chain": {
		"species": {"name": "pichu", "url": "https://pokeapi.co/api/v2/pokemon-species/172/"},
		"evolves_to": [{
			"species": {"name": "pikachu", "url": "https://pokeapi.co/api/v2/pokemon-species/25/"},
			"evolves_to": [{
				"species": {"name": "raichu", "url": "https://pokeapi.co/api/v2/pokemon-species/26/"},
				"evolves_to": []
			}]
		}]
	}
}`
