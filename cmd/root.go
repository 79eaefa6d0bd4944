// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jdfalk/pokedex/internal/config"
	"github.com/jdfalk/pokedex/internal/metrics"
	"github.com/jdfalk/pokedex/internal/pokeapi"
	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/jdfalk/pokedex/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var databasePath string
var databaseType string
var enableSQLite bool
var apiBaseURL string
var language string
var logFile string
var verbose bool
var showMetrics bool

var logCloser io.Closer

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "Look up Pokémon, track favorites and compare matchups",
	Long: `Pokedex fetches Pokémon and ability data from PokeAPI and caches responses
locally for 24 hours.

It keeps a history of recent searches and a list of favorites, and can score a
type-effectiveness battle between two Pokémon.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		metrics.Register()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if showMetrics {
			return printMetrics(cmd.ErrOrStderr())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	defer func() {
		if logCloser != nil {
			logCloser.Close()
			logCloser = nil
		}
	}()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pokedex.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "pokedex.pebble", "path to the local database")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default), sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&enableSQLite, "enable-sqlite3-i-know-the-risks", false, "enable SQLite3 database (WARNING: cross-compilation issues, PebbleDB recommended)")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", pokeapi.DefaultBaseURL, "PokeAPI base URL")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "en", "preferred language for ability text")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append log output to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print collected metrics to stderr after the command")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("enable_sqlite3_i_know_the_risks", rootCmd.PersistentFlags().Lookup("enable-sqlite3-i-know-the-risks"))
	viper.BindPFlag("api_base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("lang"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(abilityCmd)
	rootCmd.AddCommand(evolutionCmd)
	rootCmd.AddCommand(battleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pokedex")
	}

	viper.SetEnvPrefix("pokedex")
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()

	config.InitConfig()
	if err := config.LoadConfigFromFile(config.ConfigFilePath()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := setupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
	}
	if configErr == nil {
		log.Printf("[INFO] Using config file: %s", viper.ConfigFileUsed())
	}

	// Ensure database directory exists
	if config.AppConfig.DatabasePath != "" && config.AppConfig.DatabaseType != "memory" {
		dbDir := filepath.Dir(config.AppConfig.DatabasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				log.Printf("[ERROR] Error creating database directory: %v", err)
			}
		}
	}
}

// setupLogging sends log output to the configured file, to stderr when
// verbose, or nowhere.
func setupLogging() error {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}

	var writers []io.Writer
	if config.AppConfig.Verbose {
		writers = append(writers, os.Stderr)
	}
	if config.AppConfig.LogFile != "" {
		f, err := setupFileLogging(config.AppConfig.LogFile)
		if err != nil {
			log.SetOutput(os.Stderr)
			return err
		}
		logCloser = f
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}
	log.SetFlags(log.LstdFlags)
	return nil
}

func setupFileLogging(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// openService opens the configured storage and wires a pokedex.Service on
// top of it. The returned func closes the storage.
func openService() (*pokedex.Service, func(), error) {
	cfg := config.AppConfig
	sub, closer, err := openSubstrate()
	if err != nil {
		return nil, nil, err
	}

	client := pokeapi.NewClient(cfg.APIBaseURL,
		pokeapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		pokeapi.WithRateLimit(cfg.RequestsPerMinute, cfg.RequestBurst),
	)
	svc := pokedex.NewService(sub, client, pokedex.WithLanguage(cfg.Language))
	return svc, closer, nil
}

// openSubstrate opens the configured storage backend.
func openSubstrate() (storage.Substrate, func(), error) {
	cfg := config.AppConfig
	sub, err := storage.Open(cfg.DatabaseType, cfg.DatabasePath, cfg.EnableSQLite)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Printf("[INFO] Using database: %s (%s)", cfg.DatabasePath, cfg.DatabaseType)

	closer := func() {
		if err := sub.Close(); err != nil {
			log.Printf("[WARN] Failed to close database: %v", err)
		}
	}
	return sub, closer, nil
}

// withService runs fn against a freshly opened service and closes it after.
func withService(fn func(svc *pokedex.Service) error) error {
	svc, closer, err := openService()
	if err != nil {
		return err
	}
	defer closer()
	return fn(svc)
}
