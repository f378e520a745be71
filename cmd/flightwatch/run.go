package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/flightwatch/internal/db"
	"github.com/gyeh/flightwatch/internal/exitcode"
	"github.com/gyeh/flightwatch/internal/ingest"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ingestion scheduler until interrupted",
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		cmd.PrintErrln(err)
		os.Exit(exitcode.UsageError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(exitcode.DBConnError)
	}

	job, err := buildJob(ctx, cfg, pool, log)
	if err != nil {
		log.Error().Err(err).Msg("storage setup failed")
		os.Exit(exitcode.StorageFailed)
	}

	if cfg.MetricsAddr != "" {
		startMetricsServer(cfg.MetricsAddr, log)
	}

	scheduler := ingest.NewScheduler(job, cfg.Interval, cfg.RunOnStart, log)
	scheduler.Start(ctx)

	log.Info().Msg("shutdown complete")
	return nil
}

// startMetricsServer exposes /metrics in the background. Serve errors are
// logged; metrics are best-effort and never stop ingestion.
func startMetricsServer(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}
