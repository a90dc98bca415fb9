package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expenses/internal/backend"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/events"
	"expenses/internal/log"
	gsheet "expenses/internal/sheets/google"
	"expenses/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	bootLogger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)
	cfg := cli.LoadAndValidateConfig(bootLogger, (*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout).WithComponent(log.ComponentWorker)

	logger.Info("Starting expense-worker", log.FieldOperation, log.OpStartup)

	bc, err := backend.FromAppConfig(cfg, backend.SQLiteBackend)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	// The worker only mirrors; it never parses or publishes.
	bc.AMQPURL = ""
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(context.Background(), bc)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, "backend", bc.Type)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Failed to close storage", log.FieldError, err)
			}
		}
	}()

	sheetsLogger := logger.WithComponent(log.ComponentSheets)
	sheets, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		sheetsLogger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	sheetsLogger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.WithComponent(log.ComponentAMQP).Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, nil)

	if err := sheets.EnsureHeader(ctx); err != nil {
		sheetsLogger.Error("Failed to write sheet header", log.FieldError, err)
	}

	syncWorker := worker.NewSyncWorker(sheets, result.Repository)
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", log.FieldError, err, log.FieldOperation, log.OpSync)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeWithReconnect(gctx, syncWorker.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := syncWorker.StartupSyncCheck(gctx); err != nil {
					logger.Error("Periodic sync failed", log.FieldError, err, log.FieldOperation, log.OpSync)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
}
