package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recibos/internal/core"
	"recibos/internal/storage"
)

// RecurringProcessor runs the recurrence engine against the current database
// snapshot and persists whatever came due. All decision logic lives in
// GenerateDue; this type only wires snapshots in and receipts out, so one
// invocation per tick is safe to repeat.
type RecurringProcessor struct {
	storage        *storage.SQLiteRepository
	receiptService *ReceiptService
}

// NewRecurringProcessor creates a new recurring receipt processor
func NewRecurringProcessor(storage *storage.SQLiteRepository, receiptService *ReceiptService) *RecurringProcessor {
	return &RecurringProcessor{
		storage:        storage,
		receiptService: receiptService,
	}
}

// ProcessDueContracts issues receipts for every contract due at "now" and
// returns how many were created.
func (p *RecurringProcessor) ProcessDueContracts(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.receiptService == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.Date{Time: now}

	contracts, err := p.storage.ListRecurringContracts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring contracts: %w", err)
	}

	existing, err := p.storage.ListReceiptsByMonth(ctx, today.Year(), today.Month())
	if err != nil {
		return 0, fmt.Errorf("list receipts for %04d-%02d: %w", today.Year(), today.Month(), err)
	}

	slog.InfoContext(ctx, "Processing recurring contracts",
		"total_active", len(contracts),
		"existing_this_month", len(existing),
		"processing_date", now.Format("2006-01-02"))

	due := GenerateDue(today, contracts, existing)

	created := 0
	for _, r := range due {
		id, err := p.receiptService.CreateReceipt(ctx, r)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create receipt from contract",
				"contract_id", r.ContractID,
				"number", r.Number,
				"error", err)
			continue
		}

		created++
		slog.InfoContext(ctx, "Created recurring receipt",
			"id", id,
			"contract_id", r.ContractID,
			"number", r.Number,
			"amount_cents", r.Amount.Cents,
			"issue_date", r.IssueDate.Format("2006-01-02"))
	}

	slog.InfoContext(ctx, "Recurring receipt processing complete",
		"created", created,
		"due", len(due),
		"total_checked", len(contracts))

	return created, nil
}
