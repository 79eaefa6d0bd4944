// file: cmd/battle.go
// version: 1.0.0
// guid: 2e3f4a5b-6c7d-8e9f-0a1b-2c3d4e5f6a7b

package cmd

import (
	"log"

	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/spf13/cobra"
)

var battleCmd = &cobra.Command{
	Use:   "battle <left> <right>",
	Short: "Score two Pokémon against each other by stats and type matchup",
	Long: `Each side scores its base stat total multiplied by how effective its types
are against the other side's types. The higher score wins.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			session, res, err := svc.Battle(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			log.Printf("[DEBUG] battle session %s: %s vs %s", session.ID, res.Left.Name, res.Right.Name)
			renderBattle(cmd.OutOrStdout(), res)
			return nil
		})
	},
}
