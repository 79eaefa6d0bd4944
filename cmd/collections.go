// file: cmd/collections.go
// version: 1.0.0
// guid: 3f4a5b6c-7d8e-9f0a-1b2c-3d4e5f6a7b8c

package cmd

import (
	"fmt"

	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent lookups, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent lookups, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <name-or-id>",
	Short: "Remove one entry from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			if err := svc.RemoveHistory(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from history\n", pokedex.Normalize(args[0]))
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			if err := svc.ClearHistory(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		})
	},
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Show favorited Pokémon",
	Args:    cobra.NoArgs,
	RunE:    runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show favorited Pokémon",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <name-or-id>",
	Short: "Add a Pokémon to favorites, or remove it if already there",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			// resolve so that "25" and "pikachu" toggle the same entry
			p, err := svc.Pokemon(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			added, err := svc.ToggleFavorite(p.Name)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", p.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", p.Name)
			}
			return nil
		})
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove one entry from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			if err := svc.RemoveFavorite(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", pokedex.Normalize(args[0]))
			return nil
		})
	},
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			if err := svc.ClearFavorites(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Favorites cleared")
			return nil
		})
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyRemoveCmd, historyClearCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesToggleCmd, favoritesRemoveCmd, favoritesClearCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withService(func(svc *pokedex.Service) error {
		renderList(cmd.OutOrStdout(), "history", svc.History())
		return nil
	})
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	return withService(func(svc *pokedex.Service) error {
		renderList(cmd.OutOrStdout(), "favorites", svc.Favorites())
		return nil
	})
}
