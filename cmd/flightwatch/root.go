package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gyeh/flightwatch/internal/config"
	"github.com/gyeh/flightwatch/internal/exitcode"
	"github.com/gyeh/flightwatch/internal/logging"
	"github.com/rs/zerolog"
)

var (
	flagDSN        string
	flagLogFormat  string
	flagLogLevel   string
	flagConfigFile string
	flagEnvFile    string
)

var rootCmd = &cobra.Command{
	Use:   "flightwatch",
	Short: "Periodic aircraft state-vector ingestion into object storage",
	Long:  "Polls the OpenSky Network for aircraft state vectors inside a bounding box, writes each snapshot to S3-compatible storage as Parquet, and records every attempt in Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDSN, "dsn", "", "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagConfigFile, "config", "", "Path to YAML config file for scheduling and region settings")
	pf.StringVar(&flagEnvFile, "env-file", "", "Path to a dotenv file to load before reading the environment")
}

// loadConfig assembles configuration in precedence order: dotenv file,
// environment, YAML config file, then command-line flags.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	if flagEnvFile != "" {
		if err := godotenv.Load(flagEnvFile); err != nil {
			return nil, zerolog.Nop(), err
		}
	} else {
		// Best effort; a missing .env is fine.
		_ = godotenv.Load()
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if flagConfigFile != "" {
		if err := cfg.LoadFromFile(flagConfigFile); err != nil {
			return nil, zerolog.Nop(), err
		}
	}
	if flagDSN != "" {
		cfg.DSN = flagDSN
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	return cfg, logging.Setup(cfg.LogFormat, cfg.LogLevel), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
