// file: cmd/render.go
// version: 1.0.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jdfalk/pokedex/internal/battle"
	"github.com/jdfalk/pokedex/internal/cache"
	"github.com/jdfalk/pokedex/internal/pokeapi"
)

var statLabels = map[string]string{
	"hp":              "HP",
	"attack":          "Attack",
	"defense":         "Defense",
	"special-attack":  "Sp. Atk",
	"special-defense": "Sp. Def",
	"speed":           "Speed",
}

// renderCard writes the detail card for one creature.
func renderCard(w io.Writer, p *pokeapi.Pokemon, favorite bool) {
	star := ""
	if favorite {
		star = " ★"
	}
	fmt.Fprintf(w, "#%03d %s%s\n", p.ID, displayName(p.Name), star)
	fmt.Fprintf(w, "Types:  %s\n", strings.Join(p.TypeNames(), " / "))
	// height in decimetres, weight in hectograms
	fmt.Fprintf(w, "Height: %.1f m   Weight: %.1f kg\n", float64(p.Height)/10, float64(p.Weight)/10)

	if len(p.Abilities) > 0 {
		names := make([]string, 0, len(p.Abilities))
		for _, a := range p.Abilities {
			name := a.Ability.Name
			if a.IsHidden {
				name += " (hidden)"
			}
			names = append(names, name)
		}
		fmt.Fprintf(w, "Abilities: %s\n", strings.Join(names, ", "))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range p.Stats {
		label, ok := statLabels[s.Stat.Name]
		if !ok {
			label = s.Stat.Name
		}
		fmt.Fprintf(tw, "  %s\t%d\n", label, s.BaseStat)
	}
	fmt.Fprintf(tw, "  Total\t%d\n", battle.StatTotal(p.BaseStats()))
	tw.Flush()

	if p.Sprites.FrontDefault != "" {
		fmt.Fprintf(w, "Sprite: %s\n", p.Sprites.FrontDefault)
	}
}

func renderAbility(w io.Writer, a *pokeapi.Ability, effect pokeapi.EffectEntry) {
	fmt.Fprintf(w, "%s (#%d)\n", displayName(a.Name), a.ID)
	if effect.ShortEffect != "" {
		fmt.Fprintf(w, "%s\n", oneLine(effect.ShortEffect))
	}
	if effect.Effect != "" && effect.Effect != effect.ShortEffect {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(effect.Effect))
	}
	if len(a.Pokemon) > 0 {
		names := make([]string, 0, len(a.Pokemon))
		for _, h := range a.Pokemon {
			names = append(names, h.Pokemon.Name)
		}
		fmt.Fprintf(w, "\nFound on: %s\n", strings.Join(names, ", "))
	}
}

func renderEvolution(w io.Writer, chain *pokeapi.EvolutionChain) {
	stages := chain.Stages()
	parts := make([]string, 0, len(stages))
	for _, stage := range stages {
		parts = append(parts, strings.Join(stage, " | "))
	}
	fmt.Fprintln(w, strings.Join(parts, " -> "))
}

func renderBattle(w io.Writer, res battle.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIDE\tNAME\tSTATS\tMULTIPLIER\tSCORE")
	for _, row := range []struct {
		slot string
		side battle.SideResult
	}{{"left", res.Left}, {"right", res.Right}} {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			row.slot, row.side.Name, row.side.StatTotal,
			battle.FormatNumber(row.side.Multiplier), battle.FormatNumber(row.side.Score))
	}
	tw.Flush()

	switch res.Winner {
	case "left":
		fmt.Fprintf(w, "Winner: %s\n", res.Left.Name)
	case "right":
		fmt.Fprintf(w, "Winner: %s\n", res.Right.Name)
	default:
		fmt.Fprintln(w, "Result: draw")
	}
}

func renderEntries(w io.Writer, entries []cache.EntryInfo, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tSTORED\tSTATUS")
	for _, e := range entries {
		stored := "-"
		if !e.StoredAt.IsZero() {
			stored = e.StoredAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Key, e.Size, stored, entryStatus(e, now))
	}
	tw.Flush()
}

func entryStatus(e cache.EntryInfo, now time.Time) string {
	switch {
	case e.Corrupt:
		return "corrupt"
	case e.Expired:
		return "expired"
	case e.ExpiresAt.IsZero():
		return "permanent"
	default:
		return "expires in " + e.ExpiresAt.Sub(now).Round(time.Minute).String()
	}
}

func renderList(w io.Writer, title string, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintf(w, "No %s yet\n", title)
		return
	}
	for i, id := range ids {
		fmt.Fprintf(w, "%2d. %s\n", i+1, id)
	}
}

func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
