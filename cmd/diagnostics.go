// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jdfalk/pokedex/internal/cache"
	"github.com/jdfalk/pokedex/internal/config"
	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/spf13/cobra"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and cleanup helpers",
		Long:  "Diagnostic utilities for inspecting and repairing the local store.",
	}

	cleanupCmd = &cobra.Command{
		Use:   "cleanup-invalid",
		Short: "Remove expired and unparseable cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runCleanupInvalid(cmd, force, dryRun)
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Dump raw stored keys and values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			prefix, _ := cmd.Flags().GetString("prefix")
			return runDiagnosticsQuery(cmd.OutOrStdout(), limit, prefix)
		},
	}
)

func init() {
	cleanupCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	cleanupCmd.Flags().Bool("dry-run", false, "List invalid entries without deleting")

	queryCmd.Flags().Int("limit", 5, "Number of records to display")
	queryCmd.Flags().String("prefix", "", "Key prefix to inspect (e.g. cache_pokemon_)")

	diagnosticsCmd.AddCommand(cleanupCmd)
	diagnosticsCmd.AddCommand(queryCmd)
}

func runCleanupInvalid(cmd *cobra.Command, force, dryRun bool) error {
	out := cmd.OutOrStdout()
	return withService(func(svc *pokedex.Service) error {
		fmt.Fprintf(out, "Inspecting cache in %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

		entries, err := svc.CacheEntries()
		if err != nil {
			return err
		}
		invalid := make([]cache.EntryInfo, 0)
		for _, e := range entries {
			if e.Corrupt || e.Expired {
				invalid = append(invalid, e)
			}
		}

		if len(invalid) == 0 {
			fmt.Fprintln(out, "No invalid cache entries detected.")
			return nil
		}

		fmt.Fprintf(out, "Found %d invalid entries:\n", len(invalid))
		now := time.Now()
		for i, e := range invalid {
			fmt.Fprintf(out, "%2d. %s (%s)\n", i+1, e.Key, entryStatus(e, now))
		}

		if dryRun {
			fmt.Fprintln(out, "Dry run enabled; no deletions were performed.")
			return nil
		}

		if !force {
			confirmed, err := promptYesNo(cmd, fmt.Sprintf("Delete %d entries", len(invalid)))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(out, "Aborted. No entries deleted.")
				return nil
			}
		}

		deleted, err := svc.PurgeCache()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d invalid entries.\n", deleted)
		return nil
	})
}

func runDiagnosticsQuery(out io.Writer, limit int, prefix string) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	sub, closer, err := openSubstrate()
	if err != nil {
		return err
	}
	defer closer()

	keys, err := sub.Keys(prefix)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(out, "No keys matched the requested prefix.")
		return nil
	}

	for i, key := range keys {
		if i >= limit {
			break
		}
		val, ok, err := sub.Read(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		fmt.Fprintf(out, "Key: %s\n", key)
		fmt.Fprintf(out, "Value length: %d bytes\n", len(val))
		fmt.Fprintf(out, "Value preview: %s\n", truncateString(val, 500))
		fmt.Fprintln(out, "---")
	}
	if len(keys) > limit {
		fmt.Fprintf(out, "(%d more)\n", len(keys)-limit)
	}
	return nil
}

func promptYesNo(cmd *cobra.Command, action string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

// truncateString cuts in to at most max bytes without splitting a rune.
func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	for max > 0 && !utf8.RuneStart(in[max]) {
		max--
	}
	return in[:max] + "..."
}
