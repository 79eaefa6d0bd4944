// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	DatabaseType string // "pebble" (default), "sqlite" or "memory"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)

	APIBaseURL        string
	Language          string // preferred language for ability text
	RequestsPerMinute int    // outbound throttle; 0 disables it
	RequestBurst      int
	HTTPTimeout       time.Duration

	LogFile string
	Verbose bool
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("database_path", "pokedex.pebble")
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)
	viper.SetDefault("api_base_url", "https://pokeapi.co/api/v2")
	viper.SetDefault("language", "en")
	viper.SetDefault("requests_per_minute", 100)
	viper.SetDefault("request_burst", 10)
	viper.SetDefault("http_timeout", "30s")

	resolve()
}

// resolve rebuilds AppConfig from viper.
func resolve() {
	AppConfig = Config{
		DatabasePath:      viper.GetString("database_path"),
		DatabaseType:      viper.GetString("database_type"),
		EnableSQLite:      viper.GetBool("enable_sqlite3_i_know_the_risks"),
		APIBaseURL:        viper.GetString("api_base_url"),
		Language:          viper.GetString("language"),
		RequestsPerMinute: viper.GetInt("requests_per_minute"),
		RequestBurst:      viper.GetInt("request_burst"),
		HTTPTimeout:       viper.GetDuration("http_timeout"),
		LogFile:           viper.GetString("log_file"),
		Verbose:           viper.GetBool("verbose"),
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
	if AppConfig.HTTPTimeout <= 0 {
		AppConfig.HTTPTimeout = 30 * time.Second
	}
	if AppConfig.Language == "" {
		AppConfig.Language = "en"
	}
}
