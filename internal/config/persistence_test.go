// file: internal/config/persistence_test.go
// version: 2.0.0
// guid: 5e6f7a8b-9c0d-1e2f-3a4b-5c6d7e8f9a0b

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFilePath(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	assert.Equal(t, "", ConfigFilePath())

	AppConfig.DatabasePath = filepath.Join("data", "pokedex.pebble")
	assert.Equal(t, filepath.Join("data", "pokedex.yaml"), ConfigFilePath())
}

func TestSaveAndLoadConfigFile(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	path := filepath.Join(t.TempDir(), "nested", "pokedex.yaml")
	AppConfig = Config{
		DatabasePath:      "/var/lib/pokedex.pebble",
		DatabaseType:      "sqlite",
		EnableSQLite:      true,
		APIBaseURL:        "http://localhost:8000/api/v2",
		Language:          "ja",
		RequestsPerMinute: 30,
		RequestBurst:      2,
		HTTPTimeout:       10 * time.Second,
	}
	require.NoError(t, SaveConfigToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "enable_sqlite3_i_know_the_risks: true")
	assert.Contains(t, string(data), "http_timeout: 10s")

	saved := AppConfig
	viper.Reset()
	AppConfig = Config{}
	InitConfig()
	require.NoError(t, LoadConfigFromFile(path))
	assert.Equal(t, saved, AppConfig)
}

func TestLoadConfigFromFileNextToDatabase(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pokedex.yaml"),
		[]byte("language: ja\napi_base_url: http://mirror.local\nrequests_per_minute: 5\n"), 0o644))
	viper.Set("database_path", filepath.Join(dir, "pokedex.pebble"))

	InitConfig()
	require.NoError(t, LoadConfigFromFile(ConfigFilePath()))

	assert.Equal(t, "ja", AppConfig.Language)
	assert.Equal(t, "http://mirror.local", AppConfig.APIBaseURL)
	assert.Equal(t, 5, AppConfig.RequestsPerMinute)
	assert.Equal(t, 10, AppConfig.RequestBurst, "unset keys keep built-in defaults")
	assert.Equal(t, filepath.Join(dir, "pokedex.pebble"), AppConfig.DatabasePath)
}

func TestLoadConfigFromFileLosesToExplicitSettings(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	path := filepath.Join(t.TempDir(), "pokedex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: fr\ndatabase_type: sqlite\nhttp_timeout: nonsense\n"), 0o644))

	viper.Set("database_type", "pebble")
	InitConfig()
	require.NoError(t, LoadConfigFromFile(path))
	assert.Equal(t, "pebble", AppConfig.DatabaseType)
	assert.Equal(t, "fr", AppConfig.Language)
	assert.Equal(t, 30*time.Second, AppConfig.HTTPTimeout)
}

func TestLoadConfigFromFileMissingAndInvalid(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	dir := t.TempDir()
	require.NoError(t, LoadConfigFromFile(filepath.Join(dir, "absent.yaml")))
	require.NoError(t, LoadConfigFromFile(""))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("language: [unterminated"), 0o644))
	assert.Error(t, LoadConfigFromFile(bad))
}

func TestSaveConfigToFileRequiresPath(t *testing.T) {
	assert.Error(t, SaveConfigToFile(""))
}

func TestMarshalOmitsEmptyFields(t *testing.T) {
	resetConfigTestState()
	t.Cleanup(resetConfigTestState)

	AppConfig = Config{DatabaseType: "memory", Language: "de"}
	data, err := Marshal()
	require.NoError(t, err)
	assert.Equal(t, "database_type: memory\nlanguage: de\n", string(data))
}
