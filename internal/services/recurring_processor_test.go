package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"recibos/internal/core"
	"recibos/internal/storage"
)

func newProcessor(t *testing.T) (*RecurringProcessor, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "recibos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	// nil AMQP client: publish degrades to a warning, receipts stay pending
	svc := NewReceiptService(repo, nil)
	return NewRecurringProcessor(repo, svc), repo
}

func TestProcessDueContracts(t *testing.T) {
	p, repo := newProcessor(t)
	ctx := context.Background()

	if _, err := repo.CreateContract(ctx, core.Contract{
		Number:            "CONT-001",
		ClientName:        "Acme Ltda",
		Description:       "consultoria mensal",
		Amount:            core.Money{Cents: 150000},
		RecurrenceEnabled: true,
		RecurrenceDay:     17,
	}); err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if _, err := repo.CreateContract(ctx, core.Contract{
		Number:            "CONT-002",
		ClientName:        "Beta ME",
		Description:       "hospedagem",
		Amount:            core.Money{Cents: 9900},
		RecurrenceEnabled: true,
		RecurrenceDay:     25, // outside the window on the 7th
	}); err != nil {
		t.Fatalf("create contract: %v", err)
	}

	now := time.Date(2025, 9, 7, 10, 30, 0, 0, time.UTC)
	created, err := p.ProcessDueContracts(ctx, now)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 receipt created, got %d", created)
	}

	receipts, err := repo.ListReceiptsByMonth(ctx, 2025, 9)
	if err != nil {
		t.Fatalf("list receipts: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected 1 persisted receipt, got %d", len(receipts))
	}
	r := receipts[0]
	if r.Number != "RB-AUTO-202509-CONT-001" {
		t.Fatalf("unexpected number %q", r.Number)
	}
	if r.IssueDate != core.NewDate(2025, 9, 17) {
		t.Fatalf("unexpected issue date %v", r.IssueDate)
	}
	if r.Status != core.StatusIssued {
		t.Fatalf("unexpected status %q", r.Status)
	}
}

func TestProcessDueContractsIdempotent(t *testing.T) {
	p, repo := newProcessor(t)
	ctx := context.Background()

	if _, err := repo.CreateContract(ctx, core.Contract{
		Number:            "CONT-001",
		ClientName:        "Acme Ltda",
		Description:       "consultoria mensal",
		Amount:            core.Money{Cents: 150000},
		RecurrenceEnabled: true,
		RecurrenceDay:     10,
	}); err != nil {
		t.Fatalf("create contract: %v", err)
	}

	now := time.Date(2025, 9, 7, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		created, err := p.ProcessDueContracts(ctx, now)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		want := 0
		if i == 0 {
			want = 1
		}
		if created != want {
			t.Fatalf("run %d: expected %d created, got %d", i, want, created)
		}
	}

	// A later tick within the same month still creates nothing.
	later := time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)
	created, err := p.ProcessDueContracts(ctx, later)
	if err != nil {
		t.Fatalf("later run: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected no duplicate in same month, got %d", created)
	}

	// Next month the contract becomes due again.
	october := time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)
	created, err = p.ProcessDueContracts(ctx, october)
	if err != nil {
		t.Fatalf("october run: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 receipt in october, got %d", created)
	}
}

func TestProcessDueContractsUninitialized(t *testing.T) {
	var p RecurringProcessor
	if _, err := p.ProcessDueContracts(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected error for uninitialized processor")
	}
}
