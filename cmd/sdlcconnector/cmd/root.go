package cmd

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solatis/sdlc-connector/internal/core/config"
	"github.com/solatis/sdlc-connector/internal/core/db"
	"github.com/solatis/sdlc-connector/internal/logging"
)

// Version is stamped at build time with -ldflags.
var Version = "0.1.0"

var (
	configFile string

	// v carries flag bindings so flags win over env and file.
	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:           "sdlcconnector",
	Short:         "SDLC connector webhook ingestion service",
	Long:          `sdlcconnector accepts GitHub webhooks, normalizes them into envelopes and stores or forwards them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path")
	flags.String("db-url", "", "database connection URL (sqlite://path or postgres://...)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, console)")

	_ = v.BindPFlag("database.url", flags.Lookup("db-url"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig resolves configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWith(v, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

// openDatabase opens the configured database and loads named queries.
func openDatabase(cfg *config.Config) (*sqlx.DB, *db.Queries, error) {
	database, err := db.Open(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return database, queries, nil
}
