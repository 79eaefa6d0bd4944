// file: cmd/commands_test.go
// version: 2.0.0
// guid: 6f5b7d78-11d8-4c1a-a150-96d2c4a1a885

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jdfalk/pokedex/internal/backup"
	"github.com/jdfalk/pokedex/internal/config"
	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/jdfalk/pokedex/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	t      *testing.T
	api    *testutil.MockPokeAPI
	dir    string
	dbPath string
	stdin  string
	stderr bytes.Buffer
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	origConfig := config.AppConfig
	origCfgFile := cfgFile
	t.Cleanup(func() {
		resetCommandFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		config.AppConfig = origConfig
		cfgFile = origCfgFile
	})

	dir := t.TempDir()
	return &testCLI{
		t:      t,
		api:    testutil.NewMockPokeAPI(t, testutil.DefaultResponses()),
		dir:    dir,
		dbPath: filepath.Join(dir, "data", "pokedex.pebble"),
	}
}

// run executes one command against a fresh flag set and returns stdout.
func (c *testCLI) run(args ...string) (string, error) {
	c.t.Helper()
	resetCommandFlags(rootCmd)

	base := []string{
		"--config", filepath.Join(c.dir, "absent.yaml"),
		"--db", c.dbPath,
		"--db-type", "pebble",
		"--api-url", c.api.URL,
		"--lang", "en",
	}
	var out bytes.Buffer
	c.stderr.Reset()
	rootCmd.SetArgs(append(base, args...))
	rootCmd.SetIn(strings.NewReader(c.stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&c.stderr)
	c.stdin = ""

	err := Execute()
	return out.String(), err
}

func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "pokedex %s", strings.Join(args, " "))
	return out
}

func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCommandFlags(child)
	}
}

func TestLookupCommandPrintsCardAndRecordsHistory(t *testing.T) {
	cli := newTestCLI(t)

	out := cli.mustRun("lookup", "Pikachu")
	assert.Contains(t, out, "#025 Pikachu")
	assert.Contains(t, out, "Types:  electric")
	assert.Contains(t, out, "Height: 0.4 m   Weight: 6.0 kg")
	assert.Contains(t, out, "Abilities: static, lightning-rod (hidden)")
	assert.Contains(t, out, "Total    320")

	// the record was stored under its id as well, so this is served locally
	out = cli.mustRun("lookup", "025")
	assert.Contains(t, out, "#025 Pikachu")
	assert.Equal(t, 0, cli.api.Hits("/pokemon/25"))
	assert.Equal(t, 1, cli.api.Hits("/pokemon/pikachu"))

	cli.mustRun("lookup", "charmander")
	out = cli.mustRun("history")
	assert.Equal(t, " 1. charmander\n 2. pikachu\n", out)
}

func TestLookupCommandNotFoundSuggests(t *testing.T) {
	cli := newTestCLI(t)
	cli.mustRun("lookup", "pikachu")

	_, err := cli.run("lookup", "pikachuu")
	require.Error(t, err)
	assert.ErrorIs(t, err, pokedex.ErrNotFound)
	assert.Equal(t, `"pikachuu" not found (did you mean: pikachu?)`, err.Error())

	out := cli.mustRun("history", "list")
	assert.Equal(t, " 1. pikachu\n", out)
}

func TestAbilityCommandUsesLanguage(t *testing.T) {
	cli := newTestCLI(t)

	out := cli.mustRun("ability", "static")
	assert.Contains(t, out, "Static (#9)")
	assert.Contains(t, out, "Has a 30% chance of paralyzing attacking Pokémon on contact.")
	assert.Contains(t, out, "Found on: pikachu")

	out = cli.mustRun("ability", "static", "--lang", "de")
	assert.Contains(t, out, "30% Chance, Angreifer bei Berührung zu paralysieren.")
	assert.Equal(t, 1, cli.api.Hits("/ability/static"))
}

func TestEvolutionCommand(t *testing.T) {
	cli := newTestCLI(t)

	out := cli.mustRun("evolution", "pikachu")
	assert.Equal(t, "pichu -> pikachu -> raichu\n", out)

	cli.mustRun("evolution", "25")
	assert.Equal(t, 1, cli.api.Hits("/pokemon-species/25"))
	assert.Equal(t, 1, cli.api.Hits("/evolution-chain/10"))
}

func TestBattleCommand(t *testing.T) {
	cli := newTestCLI(t)

	out := cli.mustRun("battle", "charmander", "bulbasaur")
	assert.Contains(t, out, "charmander  309    2.00        618.00")
	assert.Contains(t, out, "bulbasaur   318    0.50        159.00")
	assert.Contains(t, out, "Winner: charmander")

	// battles do not touch the history
	assert.Equal(t, "No history yet\n", cli.mustRun("history"))

	_, err := cli.run("battle", "charmander", "missingno")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "right side")
	assert.ErrorIs(t, err, pokedex.ErrNotFound)
}

func TestFavoritesCommands(t *testing.T) {
	cli := newTestCLI(t)

	assert.Equal(t, "No favorites yet\n", cli.mustRun("favorites"))
	assert.Equal(t, "Added pikachu to favorites\n", cli.mustRun("favorites", "toggle", "25"))
	assert.Equal(t, "Added charmander to favorites\n", cli.mustRun("fav", "toggle", "charmander"))
	assert.Equal(t, " 1. pikachu\n 2. charmander\n", cli.mustRun("favorites", "list"))

	assert.Contains(t, cli.mustRun("lookup", "pikachu"), "#025 Pikachu ★")

	assert.Equal(t, "Removed pikachu from favorites\n", cli.mustRun("favorites", "toggle", "pikachu"))
	assert.Equal(t, " 1. charmander\n", cli.mustRun("favorites"))

	cli.mustRun("favorites", "remove", "Charmander")
	assert.Equal(t, "No favorites yet\n", cli.mustRun("favorites"))

	_, err := cli.run("favorites", "toggle", "missingno")
	assert.ErrorIs(t, err, pokedex.ErrNotFound)
}

func TestHistoryRemoveAndClear(t *testing.T) {
	cli := newTestCLI(t)
	cli.mustRun("lookup", "pikachu")
	cli.mustRun("lookup", "bulbasaur")
	cli.mustRun("lookup", "charmander")

	cli.mustRun("history", "remove", "bulbasaur")
	assert.Equal(t, " 1. charmander\n 2. pikachu\n", cli.mustRun("history"))

	assert.Equal(t, "History cleared\n", cli.mustRun("history", "clear"))
	assert.Equal(t, "No history yet\n", cli.mustRun("history"))
}

func TestCacheCommands(t *testing.T) {
	cli := newTestCLI(t)
	cli.mustRun("lookup", "pikachu")
	cli.mustRun("favorites", "toggle", "pikachu")

	out := cli.mustRun("cache", "list")
	assert.Contains(t, out, "cache_pokemon_25")
	assert.Contains(t, out, "cache_pokemon_pikachu")
	assert.Contains(t, out, "expires in 24h0m0s")

	assert.Equal(t, "Purged 0 entries\n", cli.mustRun("cache", "purge"))

	cli.mustRun("cache", "remove", "25")
	assert.Equal(t, "Cache is empty\n", cli.mustRun("cache", "list"))

	cli.mustRun("lookup", "pikachu")
	assert.Equal(t, 2, cli.api.Hits("/pokemon/pikachu"))

	// declining the prompt keeps everything
	cli.stdin = "no\n"
	out = cli.mustRun("cache", "clear")
	assert.Contains(t, out, "Aborted.")

	assert.Contains(t, cli.mustRun("cache", "clear", "--yes"), "Cleared 2 cached entries")
	assert.Equal(t, " 1. pikachu\n", cli.mustRun("favorites"))

	cli.mustRun("lookup", "pikachu")
	cli.stdin = "yes\n"
	assert.Contains(t, cli.mustRun("cache", "clear", "--all"), "Store wiped")
	assert.Equal(t, "No favorites yet\n", cli.mustRun("favorites"))
	assert.Equal(t, "No history yet\n", cli.mustRun("history"))
}

func TestPrefetchCommand(t *testing.T) {
	cli := newTestCLI(t)

	out := cli.mustRun("prefetch", "1", "4")
	assert.Equal(t, "Prefetched 2 entries (2 not found)\n", out)
	assert.Equal(t, 1, cli.api.Hits("/pokemon/1"))
	assert.Equal(t, 1, cli.api.Hits("/pokemon/4"))

	cli.mustRun("lookup", "bulbasaur")
	assert.Equal(t, 0, cli.api.Hits("/pokemon/bulbasaur"))

	_, err := cli.run("prefetch", "5", "2")
	assert.Error(t, err)
	_, err = cli.run("prefetch", "zero", "2")
	assert.Error(t, err)
}

func TestDiagnosticsCommands(t *testing.T) {
	cli := newTestCLI(t)
	cli.mustRun("lookup", "pikachu")

	out := cli.mustRun("diagnostics", "query", "--prefix", "pokemon_")
	assert.Contains(t, out, "Key: pokemon_history")
	assert.Contains(t, out, `Value preview: {"value":["pikachu"]}`)

	out = cli.mustRun("diagnostics", "query", "--prefix", "cache_", "--limit", "1")
	assert.Contains(t, out, "Key: cache_pokemon_25")
	assert.Contains(t, out, "(1 more)")

	_, err := cli.run("diagnostics", "query", "--limit", "0")
	assert.Error(t, err)

	out = cli.mustRun("diagnostics", "cleanup-invalid", "--dry-run")
	assert.Contains(t, out, "No invalid cache entries detected.")
}

func TestBackupCommands(t *testing.T) {
	cli := newTestCLI(t)
	cli.mustRun("lookup", "pikachu")
	cli.mustRun("favorites", "toggle", "pikachu")

	assert.Equal(t, "No backups found\n", cli.mustRun("backup", "list"))

	out := cli.mustRun("backup", "create")
	assert.Contains(t, out, "(4 entries)")

	backups, err := backup.ListBackups(filepath.Join(cli.dir, "data", "backups"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Contains(t, cli.mustRun("backup", "list"), backups[0].Filename)

	cli.mustRun("cache", "clear", "--all", "--yes")
	assert.Equal(t, "No favorites yet\n", cli.mustRun("favorites"))

	assert.Equal(t, "Restored 4 entries\n", cli.mustRun("backup", "restore", backups[0].Path))
	assert.Equal(t, " 1. pikachu\n", cli.mustRun("favorites"))
	assert.Equal(t, " 1. pikachu\n", cli.mustRun("history"))

	cli.mustRun("lookup", "25")
	assert.Equal(t, 1, cli.api.TotalHits())
}

func TestConfigCommands(t *testing.T) {
	cli := newTestCLI(t)

	out := cli.mustRun("config", "show")
	assert.Contains(t, out, "database_type: pebble")
	assert.Contains(t, out, "api_base_url: "+cli.api.URL)
	assert.Contains(t, out, "http_timeout: 30s")

	path := filepath.Join(cli.dir, "saved.yaml")
	out = cli.mustRun("config", "save", path)
	assert.Equal(t, "Configuration saved to "+path+"\n", out)
	assert.FileExists(t, path)
}

func TestStoreLocalConfigFileApplies(t *testing.T) {
	cli := newTestCLI(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cli.dbPath), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cli.dbPath), "pokedex.yaml"),
		[]byte("request_burst: 3\nlanguage: de\n"), 0o644))

	out := cli.mustRun("config", "show")
	assert.Contains(t, out, "request_burst: 3")
	assert.Contains(t, out, "language: en", "the --lang flag still wins")
}

func TestCacheRemoveWithCorruptEntry(t *testing.T) {
	cli := newTestCLI(t)
	cli.mustRun("lookup", "pikachu")

	sub, closer, err := openSubstrate()
	require.NoError(t, err)
	require.NoError(t, sub.Write("cache_pokemon_pikachu", "{broken"))
	closer()

	cli.mustRun("cache", "remove", "pikachu")
	assert.Equal(t, "Cache is empty\n", cli.mustRun("cache", "list"))
}

func TestPrefetchRejectsHugeRange(t *testing.T) {
	cli := newTestCLI(t)

	_, err := cli.run("prefetch", "1", "2000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than")
	assert.Equal(t, 0, cli.api.TotalHits())
}

func TestMetricsFlagAndCommand(t *testing.T) {
	cli := newTestCLI(t)

	cli.mustRun("lookup", "pikachu", "--metrics")
	assert.Contains(t, cli.stderr.String(), "pokedex_fetch_requests_total")

	out := cli.mustRun("metrics")
	assert.Contains(t, out, "pokedex_history_entries 1")
}

func TestSQLiteRequiresOptIn(t *testing.T) {
	cli := newTestCLI(t)

	_, err := cli.run("history", "--db-type", "sqlite", "--db", filepath.Join(cli.dir, "pokedex.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize database")

	out := cli.mustRun("history", "--db-type", "sqlite", "--db", filepath.Join(cli.dir, "pokedex.db"),
		"--enable-sqlite3-i-know-the-risks")
	assert.Equal(t, "No history yet\n", out)
}
