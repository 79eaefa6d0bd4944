// file: internal/cache/cache.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jdfalk/pokedex/internal/metrics"
	"github.com/jdfalk/pokedex/internal/storage"
)

// TTL is how long an entry written by Set stays valid.
const TTL = 24 * time.Hour

// Key prefixes for upstream records.
const (
	PrefixPokemon   = "cache_pokemon_"
	PrefixAbility   = "cache_ability_"
	PrefixSpecies   = "cache_species_"
	PrefixEvolution = "cache_evolution_"
)

// envelope is the persisted form of an entry. Timestamp is milliseconds since
// the Unix epoch; zero means the entry never expires by time.
type envelope struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type options struct {
	ttl time.Duration
	now func() time.Time
}

// Option configures a Store.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTTL overrides TTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// Store is an expiring key/value store over a storage.Substrate. Keys are
// prefix+id. Values are JSON encoded.
//
// Eviction is lazy: an expired entry stays in the substrate until a Get (or an
// explicit Purge) observes it, at which point it is deleted. There is no
// background sweep.
type Store[T any] struct {
	sub    storage.Substrate
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Store that owns keys starting with prefix.
func New[T any](sub storage.Substrate, prefix string, opts ...Option) *Store[T] {
	o := options{ttl: TTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{sub: sub, prefix: prefix, ttl: o.ttl, now: o.now}
}

// Key returns the substrate key for id.
func (s *Store[T]) Key(id string) string {
	return s.prefix + id
}

// Prefix returns the key prefix owned by this store.
func (s *Store[T]) Prefix() string {
	return s.prefix
}

// Get returns the value stored under id. It reports false when the entry is
// absent, unreadable or older than the TTL; unreadable and expired entries are
// deleted as a side effect.
func (s *Store[T]) Get(id string) (T, bool) {
	var zero T
	key := s.Key(id)

	raw, ok, err := s.sub.Read(key)
	if err != nil {
		log.Printf("[WARN] Cache read failed for %s: %v", key, err)
		metrics.IncCacheMiss(s.prefix)
		return zero, false
	}
	if !ok {
		metrics.IncCacheMiss(s.prefix)
		return zero, false
	}

	env, value, err := decode[T](raw)
	if err != nil {
		log.Printf("[WARN] Removing corrupt cache entry %s: %v", key, err)
		metrics.IncCacheCorrupt(s.prefix)
		s.evict(key)
		return zero, false
	}

	if s.expired(env) {
		log.Printf("[DEBUG] Cache expired for: %s", key)
		metrics.IncCacheExpired(s.prefix)
		s.evict(key)
		return zero, false
	}

	metrics.IncCacheHit(s.prefix)
	return value, true
}

// Peek decodes the entry under id without evicting it or counting a hit,
// regardless of age. It reports false when the entry is absent or unreadable.
func (s *Store[T]) Peek(id string) (T, bool) {
	var zero T
	raw, ok, err := s.sub.Read(s.Key(id))
	if err != nil || !ok {
		return zero, false
	}
	_, value, err := decode[T](raw)
	if err != nil {
		return zero, false
	}
	return value, true
}

// Set stores value under id stamped with the current time, replacing any
// previous entry.
func (s *Store[T]) Set(id string, value T) error {
	raw, err := encode(value, s.now())
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", s.Key(id), err)
	}
	if err := s.sub.Write(s.Key(id), raw); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", s.Key(id), err)
	}
	return nil
}

// SetMany stores the same value under every id with a single timestamp, so a
// record can later be looked up by any of them. Empty and duplicate ids are skipped.
func (s *Store[T]) SetMany(ids []string, value T) error {
	raw, err := encode(value, s.now())
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if err := s.sub.Write(s.Key(id), raw); err != nil {
			return fmt.Errorf("failed to write cache entry %s: %w", s.Key(id), err)
		}
	}
	return nil
}

// Remove deletes a single entry.
func (s *Store[T]) Remove(id string) error {
	return s.sub.Delete(s.Key(id))
}

// Clear wipes the whole substrate, including keys owned by other stores.
func (s *Store[T]) Clear() error {
	return s.sub.DeleteAll()
}

// EntryInfo describes a stored entry for introspection.
type EntryInfo struct {
	Key       string
	ID        string
	Size      int
	StoredAt  time.Time // zero when the entry carries no timestamp
	ExpiresAt time.Time // zero when the entry never expires
	Expired   bool
	Corrupt   bool
}

// Entries lists every entry under the prefix without evicting anything.
func (s *Store[T]) Entries() ([]EntryInfo, error) {
	keys, err := s.sub.Keys(s.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", s.prefix, err)
	}

	infos := make([]EntryInfo, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := s.sub.Read(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		info := EntryInfo{Key: key, ID: strings.TrimPrefix(key, s.prefix), Size: len(raw)}
		env, _, err := decode[T](raw)
		if err != nil {
			info.Corrupt = true
		} else if env.Timestamp != 0 {
			info.StoredAt = time.UnixMilli(env.Timestamp)
			info.ExpiresAt = info.StoredAt.Add(s.ttl)
			info.Expired = s.expired(env)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Purge deletes every expired or corrupt entry under the prefix and returns
// how many were removed. It is only run on request.
func (s *Store[T]) Purge() (int, error) {
	infos, err := s.Entries()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, info := range infos {
		if !info.Expired && !info.Corrupt {
			continue
		}
		if err := s.sub.Delete(info.Key); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", info.Key, err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store[T]) expired(env envelope) bool {
	if env.Timestamp == 0 {
		return false
	}
	age := s.now().Sub(time.UnixMilli(env.Timestamp))
	return age > s.ttl
}

func (s *Store[T]) evict(key string) {
	if err := s.sub.Delete(key); err != nil {
		log.Printf("[WARN] Failed to evict %s: %v", key, err)
	}
}

func encode(value any, now time.Time) (string, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(envelope{Value: v, Timestamp: now.UnixMilli()})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decode[T any](raw string) (envelope, T, error) {
	var env envelope
	var value T
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return env, value, err
	}
	if len(env.Value) == 0 || bytes.Equal(env.Value, []byte("null")) {
		return env, value, fmt.Errorf("entry has no value")
	}
	if err := json.Unmarshal(env.Value, &value); err != nil {
		return env, value, err
	}
	return env, value, nil
}
