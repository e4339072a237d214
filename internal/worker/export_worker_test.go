package worker

import (
	"context"
	"path/filepath"
	"testing"

	"recibos/internal/amqp"
	"recibos/internal/core"
	"recibos/internal/export/memory"
	"recibos/internal/storage"
)

func setup(t *testing.T) (*ExportWorker, *storage.SQLiteRepository, *memory.Ledger) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "recibos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	ledger := memory.New()
	return NewExportWorker(repo, ledger, 10), repo, ledger
}

func issuedReceipt(t *testing.T, repo *storage.SQLiteRepository, number string, contractID int64) int64 {
	t.Helper()
	id, err := repo.CreateReceipt(context.Background(), core.Receipt{
		Number:      number,
		ClientName:  "Acme Ltda",
		Amount:      core.Money{Cents: 150000},
		Description: "consultoria mensal",
		IssueDate:   core.NewDate(2025, 9, 17),
		Status:      core.StatusIssued,
		ContractID:  contractID,
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	return id
}

func TestHandleIssuedMessage(t *testing.T) {
	w, repo, ledger := setup(t)
	ctx := context.Background()

	id := issuedReceipt(t, repo, "RB-AUTO-202509-CONT-001", 1)

	if err := w.HandleIssuedMessage(ctx, amqp.NewReceiptIssuedMessage(id, 1)); err != nil {
		t.Fatalf("handle message: %v", err)
	}

	rows := ledger.Rows()
	if len(rows) != 1 || rows[0].Number != "RB-AUTO-202509-CONT-001" {
		t.Fatalf("expected receipt in ledger, got %+v", rows)
	}

	pending, err := repo.ListPendingExportReceipts(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending receipts, got %d", len(pending))
	}
}

func TestHandleIssuedMessageUnknownID(t *testing.T) {
	w, _, _ := setup(t)
	if err := w.HandleIssuedMessage(context.Background(), amqp.NewReceiptIssuedMessage(999, 1)); err == nil {
		t.Fatalf("expected error for unknown receipt")
	}
}

func TestProcessPendingReceipts(t *testing.T) {
	w, repo, ledger := setup(t)
	ctx := context.Background()

	issuedReceipt(t, repo, "RB-AUTO-202509-CONT-001", 1)
	issuedReceipt(t, repo, "RB-AUTO-202509-CONT-002", 2)

	if err := w.ProcessPendingReceipts(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if got := len(ledger.Rows()); got != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", got)
	}

	// Sweep again: nothing left to export.
	if err := w.ProcessPendingReceipts(ctx); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if got := len(ledger.Rows()); got != 2 {
		t.Fatalf("sweep must not duplicate rows, got %d", got)
	}
}
