// file: cmd/lookup.go
// version: 1.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

package cmd

import (
	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <name-or-id>",
	Short: "Show a Pokémon and record it in the search history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			p, err := svc.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderCard(cmd.OutOrStdout(), p, svc.IsFavorite(p.Name))
			return nil
		})
	},
}

var abilityCmd = &cobra.Command{
	Use:   "ability <name-or-id>",
	Short: "Show an ability's effect text in the configured language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			a, effect, err := svc.AbilityEffect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderAbility(cmd.OutOrStdout(), a, effect)
			return nil
		})
	},
}

var evolutionCmd = &cobra.Command{
	Use:   "evolution <name-or-id>",
	Short: "Show the evolution chain a Pokémon belongs to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			chain, err := svc.Evolution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderEvolution(cmd.OutOrStdout(), chain)
			return nil
		})
	},
}
