package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"recibos/internal/amqp"
	"recibos/internal/config"
	"recibos/internal/export"
	gsheet "recibos/internal/export/google"
	mem "recibos/internal/export/memory"
	"recibos/internal/storage"
	"recibos/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting recibos-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	// Ledger destination: Google Sheets when configured, otherwise an
	// in-memory ledger so local runs still drain the export queue.
	var ledger export.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		ledger = sheetsClient
		logger.Info("Google Sheets ledger initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		ledger = mem.New()
		logger.Info("Google Sheets disabled - exporting to in-memory ledger")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(sqliteRepo, ledger, cfg.ExportBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// On startup, drain receipts whose messages were missed while down.
	logger.Info("Performing startup export sweep...")
	if err := exportWorker.ProcessPendingReceipts(ctx); err != nil {
		logger.Error("Startup export sweep failed", "error", err)
		// Don't exit - the consumer and periodic sweep keep running
	}

	g, ctx := errgroup.WithContext(ctx)

	// Message consumption: one export per issued receipt.
	g.Go(func() error {
		err := amqpClient.ConsumeReceiptIssued(ctx, exportWorker.HandleIssuedMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			return err
		}
		return nil
	})

	// Periodic sweep for receipts whose messages were lost.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := exportWorker.ProcessPendingReceipts(ctx); err != nil {
					logger.Error("Periodic export sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Recibos-worker shutdown complete")
}
