// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk YAML layout. Keys match the viper keys so the
// same file can be passed with --config.
type fileConfig struct {
	DatabasePath      string `yaml:"database_path,omitempty"`
	DatabaseType      string `yaml:"database_type,omitempty"`
	EnableSQLite      bool   `yaml:"enable_sqlite3_i_know_the_risks,omitempty"`
	APIBaseURL        string `yaml:"api_base_url,omitempty"`
	Language          string `yaml:"language,omitempty"`
	RequestsPerMinute int    `yaml:"requests_per_minute,omitempty"`
	RequestBurst      int    `yaml:"request_burst,omitempty"`
	HTTPTimeout       string `yaml:"http_timeout,omitempty"`
	LogFile           string `yaml:"log_file,omitempty"`
}

// ConfigFilePath returns the path to the YAML config file next to the database.
func ConfigFilePath() string {
	if AppConfig.DatabasePath == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(AppConfig.DatabasePath), "pokedex.yaml")
}

// LoadConfigFromFile reads the YAML file at path as a layer of defaults: its
// settings replace the built-in defaults but lose to flags, environment
// variables and the main config file. Call it after InitConfig; AppConfig is
// rebuilt when anything was applied. A missing file is not an error.
func LoadConfigFromFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applied := 0
	set := func(key string, v any) {
		viper.SetDefault(key, v)
		applied++
	}
	for key, v := range map[string]string{
		"database_path": fc.DatabasePath,
		"database_type": fc.DatabaseType,
		"api_base_url":  fc.APIBaseURL,
		"language":      fc.Language,
		"log_file":      fc.LogFile,
	} {
		if v != "" {
			set(key, v)
		}
	}
	if fc.RequestsPerMinute > 0 {
		set("requests_per_minute", fc.RequestsPerMinute)
	}
	if fc.RequestBurst > 0 {
		set("request_burst", fc.RequestBurst)
	}
	if fc.HTTPTimeout != "" {
		if _, err := time.ParseDuration(fc.HTTPTimeout); err != nil {
			log.Printf("[WARN] Ignoring invalid http_timeout %q in %s: %v", fc.HTTPTimeout, path, err)
		} else {
			set("http_timeout", fc.HTTPTimeout)
		}
	}
	if fc.EnableSQLite {
		set("enable_sqlite3_i_know_the_risks", true)
	}

	if applied > 0 {
		resolve()
		log.Printf("[INFO] Applied %d settings from config file %s", applied, path)
	}
	return nil
}

// Marshal renders the current AppConfig as YAML.
func Marshal() ([]byte, error) {
	fc := fileConfig{
		DatabasePath:      AppConfig.DatabasePath,
		DatabaseType:      AppConfig.DatabaseType,
		EnableSQLite:      AppConfig.EnableSQLite,
		APIBaseURL:        AppConfig.APIBaseURL,
		Language:          AppConfig.Language,
		RequestsPerMinute: AppConfig.RequestsPerMinute,
		RequestBurst:      AppConfig.RequestBurst,
		LogFile:           AppConfig.LogFile,
	}
	if AppConfig.HTTPTimeout > 0 {
		fc.HTTPTimeout = AppConfig.HTTPTimeout.String()
	}

	data, err := yaml.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveConfigToFile writes the current AppConfig to path as YAML.
func SaveConfigToFile(path string) error {
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	data, err := Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("[INFO] Configuration saved to file: %s", path)
	return nil
}
