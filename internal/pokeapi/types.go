// file: internal/pokeapi/types.go
// version: 1.0.0
// guid: 4c8e2a61-7b3f-4d95-a0e2-9f1b6c3d8a57

package pokeapi

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// NamedResource is a {name, url} reference to another resource.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID extracts the trailing numeric id from the resource URL, or "" if there is none.
func (r NamedResource) ID() string {
	return idFromURL(r.URL)
}

// Pokemon is the subset of /pokemon/{id} the client uses.
type Pokemon struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"base_experience"`
	Types          []TypeSlot    `json:"types"`
	Stats          []Stat        `json:"stats"`
	Sprites        Sprites       `json:"sprites"`
	Species        NamedResource `json:"species"`
	Abilities      []AbilitySlot `json:"abilities"`
}

// TypeSlot is one entry of Pokemon.Types.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Stat is one base stat.
type Stat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// Sprites holds image URLs.
type Sprites struct {
	FrontDefault string `json:"front_default"`
	FrontShiny   string `json:"front_shiny,omitempty"`
}

// AbilitySlot is one entry of Pokemon.Abilities.
type AbilitySlot struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

// TypeNames returns the type tags in slot order.
func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// BaseStats returns the base stat values in response order.
func (p *Pokemon) BaseStats() []int {
	stats := make([]int, 0, len(p.Stats))
	for _, s := range p.Stats {
		stats = append(stats, s.BaseStat)
	}
	return stats
}

// Ability is the subset of /ability/{id} the client uses.
type Ability struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	EffectEntries     []EffectEntry   `json:"effect_entries"`
	FlavorTextEntries []FlavorText    `json:"flavor_text_entries,omitempty"`
	Pokemon           []AbilityHolder `json:"pokemon,omitempty"`
}

// EffectEntry is an ability effect in one language.
type EffectEntry struct {
	Effect      string        `json:"effect"`
	ShortEffect string        `json:"short_effect"`
	Language    NamedResource `json:"language"`
}

// FlavorText is in-game text in one language.
type FlavorText struct {
	FlavorText   string        `json:"flavor_text"`
	Language     NamedResource `json:"language"`
	VersionGroup NamedResource `json:"version_group"`
}

// AbilityHolder is a creature that can have the ability.
type AbilityHolder struct {
	IsHidden bool          `json:"is_hidden"`
	Pokemon  NamedResource `json:"pokemon"`
}

// Effect returns the effect entry that best matches lang, falling back to
// English and then to the first entry. ok is false when there are no entries.
func (a *Ability) Effect(lang string) (EffectEntry, bool) {
	if len(a.EffectEntries) == 0 {
		return EffectEntry{}, false
	}

	// English first so it wins when nothing matches
	tags := []language.Tag{language.English}
	index := []int{-1}
	for i, e := range a.EffectEntries {
		tag, err := language.Parse(e.Language.Name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		index = append(index, i)
	}

	want, err := language.Parse(lang)
	if err != nil {
		want = language.English
	}
	_, i, _ := language.NewMatcher(tags).Match(want)
	if index[i] >= 0 {
		return a.EffectEntries[index[i]], true
	}
	for _, e := range a.EffectEntries {
		if e.Language.Name == "en" {
			return e, true
		}
	}
	return a.EffectEntries[0], true
}

// Species is the subset of /pokemon-species/{id} the client uses.
type Species struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

// EvolutionChainID returns the id of the linked evolution chain.
func (s *Species) EvolutionChainID() string {
	return idFromURL(s.EvolutionChain.URL)
}

// EvolutionChain is /evolution-chain/{id}.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is one node of the evolution graph.
type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
}

// Stages flattens the evolution graph breadth first. Branching evolutions
// (eevee) share a stage.
func (c *EvolutionChain) Stages() [][]string {
	var stages [][]string
	level := []ChainLink{c.Chain}
	for len(level) > 0 {
		var names []string
		var next []ChainLink
		for _, link := range level {
			names = append(names, link.Species.Name)
			next = append(next, link.EvolvesTo...)
		}
		stages = append(stages, names)
		level = next
	}
	return stages
}

func idFromURL(u string) string {
	u = strings.TrimRight(u, "/")
	i := strings.LastIndex(u, "/")
	if i < 0 {
		return ""
	}
	id := u[i+1:]
	if _, err := strconv.Atoi(id); err != nil {
		return ""
	}
	return id
}
