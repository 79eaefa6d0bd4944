// file: internal/pokedex/service.go
// version: 1.0.0
// guid: a9d2e6f0-3c1b-4875-9e4a-7b0c2f8d5e16

package pokedex

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jdfalk/pokedex/internal/battle"
	"github.com/jdfalk/pokedex/internal/cache"
	"github.com/jdfalk/pokedex/internal/collections"
	"github.com/jdfalk/pokedex/internal/pokeapi"
	"github.com/jdfalk/pokedex/internal/storage"
)

// Fetcher is the upstream data source.
type Fetcher interface {
	GetPokemon(ctx context.Context, id string) (*pokeapi.Pokemon, error)
	GetAbility(ctx context.Context, id string) (*pokeapi.Ability, error)
	GetSpecies(ctx context.Context, id string) (*pokeapi.Species, error)
	GetEvolutionChain(ctx context.Context, id string) (*pokeapi.EvolutionChain, error)
}

// Service runs user actions: it reads through the caches, falls back to the
// Fetcher and keeps history and favorites up to date.
type Service struct {
	fetcher   Fetcher
	pokemon   *cache.Store[pokeapi.Pokemon]
	abilities *cache.Store[pokeapi.Ability]
	species   *cache.Store[pokeapi.Species]
	evolution *cache.Store[pokeapi.EvolutionChain]
	lists     *collections.Store
	language  string
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	language  string
	cacheOpts []cache.Option
}

// WithLanguage sets the preferred language for ability text.
func WithLanguage(lang string) Option {
	return func(o *serviceOptions) { o.language = lang }
}

// WithCacheOptions passes options to every cache store.
func WithCacheOptions(opts ...cache.Option) Option {
	return func(o *serviceOptions) { o.cacheOpts = append(o.cacheOpts, opts...) }
}

// NewService wires caches and collections over sub.
func NewService(sub storage.Substrate, fetcher Fetcher, opts ...Option) *Service {
	o := serviceOptions{language: "en"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		fetcher:   fetcher,
		pokemon:   cache.New[pokeapi.Pokemon](sub, cache.PrefixPokemon, o.cacheOpts...),
		abilities: cache.New[pokeapi.Ability](sub, cache.PrefixAbility, o.cacheOpts...),
		species:   cache.New[pokeapi.Species](sub, cache.PrefixSpecies, o.cacheOpts...),
		evolution: cache.New[pokeapi.EvolutionChain](sub, cache.PrefixEvolution, o.cacheOpts...),
		lists:     collections.New(sub),
		language:  o.language,
	}
}

// Language returns the preferred language for ability text.
func (s *Service) Language() string {
	return s.language
}

// Normalize turns user input into a cache/API identifier: trimmed and
// lowercased, with numeric ids stripped of leading zeros.
func Normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return strconv.Itoa(n)
	}
	return id
}

// Lookup returns the creature for id and records it in the history.
func (s *Service) Lookup(ctx context.Context, id string) (*pokeapi.Pokemon, error) {
	p, err := s.Pokemon(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.lists.AddToHistory(p.Name); err != nil {
		log.Printf("[WARN] Failed to update history with %s: %v", p.Name, err)
	}
	return p, nil
}

// Pokemon returns the creature for id without touching the history. Fetched
// records are cached under both their name and their numeric id.
func (s *Service) Pokemon(ctx context.Context, id string) (*pokeapi.Pokemon, error) {
	p, err := readThrough(ctx, s.pokemon, Normalize(id), s.fetcher.GetPokemon,
		func(p *pokeapi.Pokemon) []string { return []string{p.Name, strconv.Itoa(p.ID)} })
	if err != nil {
		return nil, s.notFound(id, err)
	}
	return p, nil
}

// Ability returns the ability for id.
func (s *Service) Ability(ctx context.Context, id string) (*pokeapi.Ability, error) {
	a, err := readThrough(ctx, s.abilities, Normalize(id), s.fetcher.GetAbility,
		func(a *pokeapi.Ability) []string { return []string{a.Name, strconv.Itoa(a.ID)} })
	if err != nil {
		return nil, wrapNotFound(id, err, nil)
	}
	return a, nil
}

// AbilityEffect returns the ability and its effect text in the service language.
func (s *Service) AbilityEffect(ctx context.Context, id string) (*pokeapi.Ability, pokeapi.EffectEntry, error) {
	a, err := s.Ability(ctx, id)
	if err != nil {
		return nil, pokeapi.EffectEntry{}, err
	}
	e, _ := a.Effect(s.language)
	return a, e, nil
}

// Evolution follows creature -> species -> evolution chain, caching each hop.
func (s *Service) Evolution(ctx context.Context, id string) (*pokeapi.EvolutionChain, error) {
	p, err := s.Pokemon(ctx, id)
	if err != nil {
		return nil, err
	}

	speciesID := p.Species.ID()
	if speciesID == "" {
		speciesID = p.Species.Name
	}
	sp, err := readThrough(ctx, s.species, Normalize(speciesID), s.fetcher.GetSpecies,
		func(sp *pokeapi.Species) []string { return []string{sp.Name, strconv.Itoa(sp.ID)} })
	if err != nil {
		return nil, wrapNotFound(speciesID, fmt.Errorf("species: %w", err), nil)
	}

	chainID := sp.EvolutionChainID()
	if chainID == "" {
		return nil, wrapNotFound(id, fmt.Errorf("species %s has no evolution chain: %w", sp.Name, pokeapi.ErrNotFound), nil)
	}
	chain, err := readThrough(ctx, s.evolution, chainID, s.fetcher.GetEvolutionChain,
		func(c *pokeapi.EvolutionChain) []string { return []string{strconv.Itoa(c.ID)} })
	if err != nil {
		return nil, wrapNotFound(chainID, fmt.Errorf("evolution chain: %w", err), nil)
	}
	return chain, nil
}

// Battle looks up both creatures, selects them into a fresh session and
// compares them.
func (s *Service) Battle(ctx context.Context, left, right string) (*battle.Session, battle.Result, error) {
	session := battle.NewSession()
	for _, pick := range []struct {
		slot battle.Slot
		id   string
	}{{battle.Left, left}, {battle.Right, right}} {
		p, err := s.Pokemon(ctx, pick.id)
		if err != nil {
			return session, battle.Result{}, fmt.Errorf("%s side: %w", pick.slot, err)
		}
		session.Select(pick.slot, SideFromPokemon(p))
	}
	res, err := battle.Compare(session)
	return session, res, err
}

// SideFromPokemon extracts what the battle scorer needs.
func SideFromPokemon(p *pokeapi.Pokemon) battle.Side {
	return battle.Side{Name: p.Name, Types: p.TypeNames(), Stats: p.BaseStats()}
}

// Prefetch warms the creature cache for ids, one request at a time. done is
// called after each id (may be nil). Not-found ids are skipped; any other error
// stops the run.
func (s *Service) Prefetch(ctx context.Context, ids []string, done func(id string, err error)) (int, error) {
	fetched := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return fetched, err
		}
		_, err := s.Pokemon(ctx, id)
		if done != nil {
			done(id, err)
		}
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return fetched, err
		}
		fetched++
	}
	return fetched, nil
}

// readThrough returns the cached value for id or fetches, caches and returns it.
func readThrough[T any](
	ctx context.Context,
	store *cache.Store[T],
	id string,
	fetch func(context.Context, string) (*T, error),
	keys func(*T) []string,
) (*T, error) {
	if v, ok := store.Get(id); ok {
		return &v, nil
	}

	v, err := fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := store.SetMany(append(keys(v), id), *v); err != nil {
		log.Printf("[ERROR] Failed to cache %s%s: %v", store.Prefix(), id, err)
	}
	return v, nil
}
