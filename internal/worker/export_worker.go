// Package worker contains the export worker that moves issued receipts from
// SQLite to the external ledger.
package worker

import (
	"context"
	"fmt"

	"recibos/internal/amqp"
	"recibos/internal/export"
	"recibos/internal/log"
	"recibos/internal/storage"
)

// ExportWorker appends issued receipts to the ledger, driven by AMQP
// messages with a periodic sweep as the catch-up path for anything missed
// while the broker or the worker was down.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	ledger    export.LedgerWriter
	batchSize int
	logger    *log.Logger
}

func NewExportWorker(storage *storage.SQLiteRepository, ledger export.LedgerWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentExport),
	}
}

// HandleIssuedMessage processes a single issued-receipt message from AMQP.
func (w *ExportWorker) HandleIssuedMessage(ctx context.Context, msg *amqp.ReceiptIssuedMessage) error {
	w.logger.InfoContext(ctx, "Processing export message",
		log.FieldReceiptID, msg.ID,
		"version", msg.Version)

	return w.exportReceipt(ctx, msg.ID)
}

// ProcessPendingReceipts exports receipts still marked pending, oldest first,
// up to the configured batch size. Individual failures are logged and left
// pending for the next sweep.
func (w *ExportWorker) ProcessPendingReceipts(ctx context.Context) error {
	pending, err := w.storage.ListPendingExportReceipts(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending receipts: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	exported := 0
	for _, r := range pending {
		if err := w.exportReceipt(ctx, r.ID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export pending receipt",
				log.FieldReceiptID, r.ID,
				log.FieldReceiptNum, r.Number,
				log.FieldError, err)
			continue
		}
		exported++
	}

	w.logger.InfoContext(ctx, "Pending export sweep complete",
		"exported", exported,
		"total", len(pending))

	return nil
}

func (w *ExportWorker) exportReceipt(ctx context.Context, id int64) error {
	receipt, err := w.storage.GetReceipt(ctx, id)
	if err != nil {
		return fmt.Errorf("get receipt from storage: %w", err)
	}

	rowRef, err := w.ledger.Append(ctx, receipt)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkReceiptExported(ctx, id); err != nil {
		// The row is in the ledger; leaving the flag pending would duplicate
		// it on the next sweep, so this failure matters.
		return fmt.Errorf("mark receipt exported: %w", err)
	}

	w.logger.InfoContext(ctx, "Receipt exported",
		log.FieldReceiptID, id,
		log.FieldReceiptNum, receipt.Number,
		log.FieldSheetsRef, rowRef)

	return nil
}
