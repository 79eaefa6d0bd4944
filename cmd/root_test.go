// file: cmd/root_test.go
// version: 2.0.0
// guid: 7eae8d0c-7fda-4f45-8f73-5d1e0c7c9f1a

package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jdfalk/pokedex/internal/config"
)

func TestSetupFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pokedex.log")

	logFile, err := setupFileLogging(path)
	if err != nil {
		t.Fatalf("setupFileLogging failed: %v", err)
	}
	defer logFile.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestSetupLoggingWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokedex.log")

	prevWriter := log.Writer()
	prevFlags := log.Flags()
	origConfig := config.AppConfig
	defer func() {
		if logCloser != nil {
			logCloser.Close()
			logCloser = nil
		}
		log.SetOutput(prevWriter)
		log.SetFlags(prevFlags)
		config.AppConfig = origConfig
	}()

	config.AppConfig.LogFile = path
	config.AppConfig.Verbose = false
	if err := setupLogging(); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	log.Printf("[INFO] hello from the test")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello from the test") {
		t.Fatalf("expected log line in file, got %q", string(data))
	}
}

func TestInitConfigCreatesDirectories(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "db", "pokedex.pebble")

	origCfgFile := cfgFile
	origConfig := config.AppConfig
	prevWriter := log.Writer()
	defer func() {
		cfgFile = origCfgFile
		config.AppConfig = origConfig
		resetCommandFlags(rootCmd)
		log.SetOutput(prevWriter)
	}()

	cfgFile = filepath.Join(tempDir, "config.yaml")
	if err := rootCmd.PersistentFlags().Set("db", dbPath); err != nil {
		t.Fatalf("failed to set db flag: %v", err)
	}

	initConfig()

	if config.AppConfig.DatabasePath != dbPath {
		t.Fatalf("expected database path %s, got %s", dbPath, config.AppConfig.DatabasePath)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Fatalf("expected db directory to exist: %v", err)
	}
}
