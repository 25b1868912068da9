package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/backup"
	"github.com/ozgurkzlkaya/fixlog/internal/config"
	"github.com/ozgurkzlkaya/fixlog/internal/events"
	"github.com/ozgurkzlkaya/fixlog/internal/server"
	"github.com/ozgurkzlkaya/fixlog/internal/store/postgres"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Fixlog HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (FIXLOG_NATS_URL not set)")
		}

		// Create server components.
		fixlogServer := server.NewFixlogServer(store, publisher)

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: fixlogServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start backup scheduler if any destinations are configured.
		var scheduler *backup.Scheduler
		if cfg.BackupInterval > 0 {
			var dests []backup.Destination

			if cfg.BackupS3Bucket != "" {
				s3Dest, err := backup.NewS3Destination(
					context.Background(),
					cfg.BackupS3Bucket,
					cfg.BackupS3Key,
					cfg.BackupS3Region,
					cfg.BackupS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 backup destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("backup S3 destination enabled", "bucket", cfg.BackupS3Bucket, "key", cfg.BackupS3Key)
				}
			}

			if cfg.BackupFile != "" {
				dests = append(dests, backup.NewFileDestination(cfg.BackupFile))
				logger.Info("backup file destination enabled", "path", cfg.BackupFile)
			}

			if len(dests) > 0 {
				scheduler = backup.NewScheduler(store, dests, cfg.BackupInterval, logger)
				scheduler.Start()
				logger.Info("backup scheduler started", "interval", cfg.BackupInterval)
			}
		}

		logger.Info("fixlog server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("backup scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// Opening the store applies pending migrations.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		return store.Close()
	},
}
