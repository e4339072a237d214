package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"recibos/internal/amqp"
	"recibos/internal/config"
	"recibos/internal/services"
	"recibos/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting recurrence-worker")

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

	// Initialize AMQP client for publishing receipt messages.
	// The recibos-worker consumes these and appends to the ledger.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized - receipts will export via recibos-worker")
		}
	} else {
		logger.Info("AMQP disabled - receipts will not be pushed to the export queue")
	}

	receiptService := services.NewReceiptService(sqliteRepo, amqpClient)
	defer receiptService.Close()

	processor := services.NewRecurringProcessor(sqliteRepo, receiptService)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processingInterval := cfg.RecurrenceInterval
	logger.Info("Recurring receipt processor configured",
		"interval", processingInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(processingInterval)
	defer ticker.Stop()

	// Run initial processing on startup
	logger.Info("Running initial recurring receipt processing...")
	if count, err := processor.ProcessDueContracts(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "receipts_created", count)
	}

	// Start periodic processing
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				logger.Info("Processing due recurring contracts...")
				count, err := processor.ProcessDueContracts(ctx, now)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
				} else {
					logger.Info("Periodic processing complete",
						"receipts_created", count,
						"next_check", now.Add(processingInterval).Format("15:04:05"))
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down recurrence-worker...")
	cancel()
	logger.Info("Recurrence-worker shutdown complete")
}
