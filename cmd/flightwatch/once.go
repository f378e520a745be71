package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/flightwatch/internal/config"
	"github.com/gyeh/flightwatch/internal/db"
	"github.com/gyeh/flightwatch/internal/exitcode"
	"github.com/gyeh/flightwatch/internal/ingest"
	"github.com/gyeh/flightwatch/internal/model"
	"github.com/gyeh/flightwatch/internal/notify"
	"github.com/gyeh/flightwatch/internal/opensky"
	"github.com/gyeh/flightwatch/internal/storage"
	"github.com/gyeh/flightwatch/internal/store"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single ingestion attempt and exit",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

// buildJob wires the fetcher, storage writer, attempt store, and notifier
// into an ingestion job. Shared by the once and run commands.
func buildJob(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log zerolog.Logger) (*ingest.Job, error) {
	fetcher := opensky.NewClient(opensky.Config{
		BaseURL:      cfg.OpenSkyBaseURL,
		AuthURL:      cfg.OpenSkyAuthURL,
		ClientID:     cfg.OpenSkyClientID,
		ClientSecret: cfg.OpenSkyClientSecret,
		Timeout:      cfg.FetchTimeout,
	}, log)
	if err := fetcher.Authenticate(ctx); err != nil {
		log.Warn().Err(err).Msg("authentication failed, continuing anonymously")
	}

	writer, err := storage.NewWriter(ctx, storage.Config{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		Prefix:    cfg.MinIOPrefix,
		UseSSL:    cfg.MinIOUseSSL,
	}, log)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewIngestionNotifier(notify.NewSlackClient(cfg.SlackWebhookURL), log)
	return ingest.NewJob(fetcher, writer, store.New(pool), notifier, cfg.Region, cfg.FetchTimeout, log), nil
}

// categoryExitCode maps a failed attempt's category onto the process exit
// code, so schedulers wrapping `once` can pick a retry posture.
func categoryExitCode(category model.ErrorCategory) int {
	switch category {
	case model.CategoryRateLimit, model.CategoryAPITimeout, model.CategoryAPIConnection:
		return exitcode.FetchFailed
	case model.CategoryS3Upload, model.CategoryS3Config, model.CategoryParquet:
		return exitcode.StorageFailed
	}
	return exitcode.AttemptError
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		cmd.PrintErrln(err)
		os.Exit(exitcode.UsageError)
	}
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	job, err := buildJob(ctx, cfg, pool, log)
	if err != nil {
		log.Error().Err(err).Msg("storage setup failed")
		os.Exit(exitcode.StorageFailed)
	}

	result, err := job.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("attempt could not be recorded")
		os.Exit(exitcode.AttemptError)
	}

	if result.Status == model.StatusFailed {
		fmt.Printf("Attempt %d failed [%s]: %s\n", result.AttemptID, result.Category, result.Message)
		os.Exit(categoryExitCode(result.Category))
	}

	fmt.Printf("Attempt %d succeeded: %d records at %s (%.1fs)\n",
		result.AttemptID, result.RecordCount, result.StoragePath, result.Duration.Seconds())
	return nil
}
