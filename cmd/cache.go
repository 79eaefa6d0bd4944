// file: cmd/cache.go
// version: 1.0.0
// guid: 4a5b6c7d-8e9f-0a1b-2c3d-4e5f6a7b8c9d

package cmd

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local response cache",
	Long: `Responses are cached for 24 hours. Expired entries are only removed when they
are next read, or explicitly with "cache purge".`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached entries with their expiry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			entries, err := svc.CacheEntries()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}
			renderEntries(cmd.OutOrStdout(), entries, time.Now())
			return nil
		})
	},
}

var cacheRemoveCmd = &cobra.Command{
	Use:   "remove <name-or-id>",
	Short: "Forget a cached Pokémon under both its name and id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			if err := svc.ForgetPokemon(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from cache\n", pokedex.Normalize(args[0]))
			return nil
		})
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired and unparseable entries now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			n, err := svc.PurgeCache()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d entries\n", n)
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached response",
	Long: `Delete every cached response. History and favorites are kept unless --all is
given, which wipes the whole store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("yes")
		all, _ := cmd.Flags().GetBool("all")

		if !force {
			action := "Clear the cache"
			if all {
				action = "Wipe the cache, history and favorites"
			}
			confirmed, err := promptYesNo(cmd, action)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		return withService(func(svc *pokedex.Service) error {
			if all {
				if err := svc.ClearAll(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Store wiped")
				return nil
			}
			n, err := svc.ClearCache()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached entries\n", n)
			return nil
		})
	},
}

var prefetchCmd = &cobra.Command{
	Use:   "prefetch <from> <to>",
	Short: "Warm the cache for a range of Pokédex numbers",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := idRange(args[0], args[1])
		if err != nil {
			return err
		}

		return withService(func(svc *pokedex.Service) error {
			bar := progressbar.NewOptions(len(ids),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("prefetching"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			missing := 0
			fetched, err := svc.Prefetch(cmd.Context(), ids, func(id string, err error) {
				if errors.Is(err, pokedex.ErrNotFound) {
					missing++
					log.Printf("[WARN] prefetch: %s not found", id)
				}
				bar.Add(1)
			})
			bar.Finish()
			if err != nil {
				return fmt.Errorf("prefetch stopped after %d entries: %w", fetched, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Prefetched %d entries (%d not found)\n", fetched, missing)
			return nil
		})
	},
}

func init() {
	cacheClearCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	cacheClearCmd.Flags().Bool("all", false, "Also wipe history and favorites")

	cacheCmd.AddCommand(cacheListCmd, cacheRemoveCmd, cachePurgeCmd, cacheClearCmd)
}

// maxPrefetch bounds a single prefetch run.
const maxPrefetch = 2000

// idRange expands an inclusive numeric range of at most maxPrefetch ids.
func idRange(from, to string) ([]string, error) {
	lo, err := strconv.Atoi(from)
	if err != nil || lo < 1 {
		return nil, fmt.Errorf("invalid start %q: must be a positive number", from)
	}
	hi, err := strconv.Atoi(to)
	if err != nil || hi < 1 {
		return nil, fmt.Errorf("invalid end %q: must be a positive number", to)
	}
	if hi < lo {
		return nil, fmt.Errorf("invalid range %d..%d", lo, hi)
	}
	if hi-lo >= maxPrefetch {
		return nil, fmt.Errorf("range %d..%d is larger than %d entries", lo, hi, maxPrefetch)
	}
	ids := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return ids, nil
}
