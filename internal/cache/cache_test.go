// file: internal/cache/cache_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package cache

import (
	"testing"
	"time"

	"github.com/jdfalk/pokedex/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store[record], *storage.MemoryStore, *clock) {
	t.Helper()
	sub := storage.NewMemoryStore()
	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New[record](sub, PrefixPokemon, WithClock(c.now)), sub, c
}

func TestGetSet(t *testing.T) {
	s, sub, _ := newTestStore(t)

	_, ok := s.Get("pikachu")
	assert.False(t, ok)

	require.NoError(t, s.Set("pikachu", record{ID: 25, Name: "pikachu"}))
	v, ok := s.Get("pikachu")
	require.True(t, ok)
	assert.Equal(t, record{ID: 25, Name: "pikachu"}, v)

	raw, ok, _ := sub.Read("cache_pokemon_pikachu")
	require.True(t, ok)
	assert.JSONEq(t, `{"value":{"id":25,"name":"pikachu"},"timestamp":1709294400000}`, raw)
}

func TestSetOverwrites(t *testing.T) {
	s, _, _ := newTestStore(t)
	require.NoError(t, s.Set("eevee", record{ID: 1}))
	require.NoError(t, s.Set("eevee", record{ID: 133}))
	v, ok := s.Get("eevee")
	require.True(t, ok)
	assert.Equal(t, 133, v.ID)
}

func TestTTLBoundary(t *testing.T) {
	s, sub, c := newTestStore(t)
	require.NoError(t, s.Set("bulbasaur", record{ID: 1, Name: "bulbasaur"}))

	c.advance(TTL - time.Second)
	_, ok := s.Get("bulbasaur")
	assert.True(t, ok, "entry should still be valid just before the TTL")

	c.advance(time.Second)
	_, ok = s.Get("bulbasaur")
	assert.True(t, ok, "entry exactly TTL old is still valid")

	c.advance(time.Second)
	_, ok = s.Get("bulbasaur")
	assert.False(t, ok, "entry should be expired just after the TTL")

	_, present, _ := sub.Read("cache_pokemon_bulbasaur")
	assert.False(t, present, "expired entry should be removed on read")
}

func TestExpiredEntryLingersUntilRead(t *testing.T) {
	s, sub, c := newTestStore(t)
	require.NoError(t, s.Set("mew", record{ID: 151}))
	c.advance(2 * TTL)

	_, present, _ := sub.Read("cache_pokemon_mew")
	assert.True(t, present)

	_, ok := s.Get("mew")
	assert.False(t, ok)
	_, present, _ = sub.Read("cache_pokemon_mew")
	assert.False(t, present)
}

func TestDualKeyIndependentClocks(t *testing.T) {
	s, _, c := newTestStore(t)
	rec := record{ID: 25, Name: "pikachu"}

	require.NoError(t, s.Set("pikachu", rec))
	c.advance(12 * time.Hour)
	require.NoError(t, s.Set("25", rec))

	byName, ok := s.Get("pikachu")
	require.True(t, ok)
	byID, ok := s.Get("25")
	require.True(t, ok)
	assert.Equal(t, byName, byID)

	// 24h+1s after the name write, 12h+1s after the id write
	c.advance(12*time.Hour + time.Second)
	_, ok = s.Get("pikachu")
	assert.False(t, ok)
	_, ok = s.Get("25")
	assert.True(t, ok)
}

func TestSetMany(t *testing.T) {
	s, sub, _ := newTestStore(t)
	require.NoError(t, s.SetMany([]string{"charmander", "4", "", "4"}, record{ID: 4, Name: "charmander"}))

	keys, err := sub.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache_pokemon_4", "cache_pokemon_charmander"}, keys)

	for _, id := range []string{"charmander", "4"} {
		v, ok := s.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, 4, v.ID)
	}
}

func TestEntryWithoutTimestampNeverExpires(t *testing.T) {
	s, sub, c := newTestStore(t)
	require.NoError(t, sub.Write("cache_pokemon_ditto", `{"value":{"id":132,"name":"ditto"}}`))

	c.advance(365 * 24 * time.Hour)
	v, ok := s.Get("ditto")
	require.True(t, ok)
	assert.Equal(t, "ditto", v.Name)
}

func TestCorruptEntrySelfHeals(t *testing.T) {
	cases := map[string]string{
		"not json":      "definitely not json",
		"null":          "null",
		"missing value": `{"timestamp":1}`,
		"wrong shape":   `{"value":"a string","timestamp":1709294400000}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			s, sub, _ := newTestStore(t)
			require.NoError(t, sub.Write("cache_pokemon_missingno", raw))

			_, ok := s.Get("missingno")
			assert.False(t, ok)

			_, present, _ := sub.Read("cache_pokemon_missingno")
			assert.False(t, present, "corrupt entry should be deleted")
		})
	}
}

func TestPeekDoesNotEvict(t *testing.T) {
	s, sub, c := newTestStore(t)
	require.NoError(t, s.Set("pikachu", record{ID: 25, Name: "pikachu"}))
	c.advance(TTL + time.Hour)

	v, ok := s.Peek("pikachu")
	require.True(t, ok)
	assert.Equal(t, 25, v.ID)
	_, present, _ := sub.Read("cache_pokemon_pikachu")
	assert.True(t, present, "peek leaves expired entries in place")

	require.NoError(t, sub.Write("cache_pokemon_bad", "{oops"))
	_, ok = s.Peek("bad")
	assert.False(t, ok)
	_, present, _ = sub.Read("cache_pokemon_bad")
	assert.True(t, present, "peek leaves corrupt entries in place")

	_, ok = s.Peek("absent")
	assert.False(t, ok)
}

func TestRemoveAndClear(t *testing.T) {
	s, sub, _ := newTestStore(t)
	require.NoError(t, s.Set("a", record{ID: 1}))
	require.NoError(t, s.Set("b", record{ID: 2}))
	require.NoError(t, sub.Write("pokemon_history", `{"value":["a"]}`))

	require.NoError(t, s.Remove("a"))
	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("b")
	assert.True(t, ok)

	require.NoError(t, s.Clear())
	keys, err := sub.Keys("")
	require.NoError(t, err)
	assert.Empty(t, keys, "clear wipes the whole substrate")
}

func TestEntriesAndPurge(t *testing.T) {
	s, sub, c := newTestStore(t)
	require.NoError(t, s.Set("old", record{ID: 1}))
	c.advance(TTL + time.Minute)
	require.NoError(t, s.Set("fresh", record{ID: 2}))
	require.NoError(t, sub.Write("cache_pokemon_broken", "{"))
	require.NoError(t, sub.Write("cache_ability_static", `{"value":{}}`))

	infos, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, infos, 3)

	byID := map[string]EntryInfo{}
	for _, info := range infos {
		byID[info.ID] = info
	}
	assert.True(t, byID["old"].Expired)
	assert.False(t, byID["fresh"].Expired)
	assert.WithinDuration(t, c.now().Add(TTL), byID["fresh"].ExpiresAt, 0)
	assert.True(t, byID["broken"].Corrupt)

	// Entries must not evict
	_, present, _ := sub.Read("cache_pokemon_old")
	assert.True(t, present)

	removed, err := s.Purge()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, err := sub.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache_ability_static", "cache_pokemon_fresh"}, keys)
}
