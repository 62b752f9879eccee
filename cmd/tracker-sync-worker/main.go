package main

import (
	"context"
	"flag"
	"os"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	"expensetracker/internal/log"
	"expensetracker/internal/sheets/google"
	"expensetracker/internal/storage"
	"expensetracker/internal/worker"
)

func main() {
	configFile := flag.String("config", "", "config file")
	flag.Parse()

	cli.LoadEnvFile()
	bootLogger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)

	cfg, err := cli.LoadAndValidateConfig(*configFile)
	if err != nil {
		bootLogger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.ValidateSheets(); err != nil {
		bootLogger.Error("Google Sheets is not configured", log.FieldError, err)
		os.Exit(1)
	}

	logger, err := cli.SetupLogger(cfg, log.ComponentWorker)
	if err != nil {
		bootLogger.Error("Failed to set up logging", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Starting tracker-sync-worker", log.FieldOperation, log.OpStartup)

	// The worker reads the same database the tracker writes.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	sheetsClient, err := google.New(context.Background(), google.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	var source worker.ChangeSource
	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		source = amqpClient
	} else {
		logger.Info("AMQP disabled, relying on periodic sync", "interval", cfg.SyncInterval)
	}

	cleanup := func() {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if err := repo.Close(); err != nil {
			logger.Warn("Failed to close SQLite repository", log.FieldError, err)
		}
	}

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, done := cli.GracefulShutdown(parent, logger, 10*time.Second, cleanup)

	w := worker.NewSyncWorker(repo, sheetsClient, source, cfg.SyncInterval, logger)
	if err := w.Run(ctx); err != nil {
		logger.Error("Sync worker failed", log.FieldError, err)
		cancel()
	}

	cli.WaitForShutdown(ctx, done)
}
