package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"recibos/internal/core"

	_ "modernc.org/sqlite"
)

// Export states for the receipt ledger sync.
const (
	ExportPending = "pending"
	ExportDone    = "done"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateContract stores a contract and returns its assigned ID. The
// recurrence day is clamped to 1-28 here so the recurrence engine never sees
// a day that some months are missing.
func (r *SQLiteRepository) CreateContract(ctx context.Context, c core.Contract) (int64, error) {
	c.RecurrenceDay = core.ClampRecurrenceDay(c.RecurrenceDay)
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("validate contract: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO contracts (number, client_name, client_document, description, amount_cents, recurrence_enabled, recurrence_day)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Number, c.ClientName, c.ClientDocument, c.Description,
		c.Amount.Cents, c.RecurrenceEnabled, c.RecurrenceDay)
	if err != nil {
		return 0, fmt.Errorf("insert contract: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contract id: %w", err)
	}

	slog.InfoContext(ctx, "Contract saved",
		"id", id,
		"number", c.Number,
		"client", c.ClientName,
		"amount_cents", c.Amount.Cents,
		"recurrence_enabled", c.RecurrenceEnabled)

	return id, nil
}

// GetContract loads a single contract by ID.
func (r *SQLiteRepository) GetContract(ctx context.Context, id int64) (core.Contract, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, number, client_name, client_document, description, amount_cents, recurrence_enabled, recurrence_day
		FROM contracts WHERE id = ?`, id)
	c, err := scanContract(row)
	if err != nil {
		return core.Contract{}, fmt.Errorf("get contract %d: %w", id, err)
	}
	return c, nil
}

// ListContracts returns every contract, newest first.
func (r *SQLiteRepository) ListContracts(ctx context.Context) ([]core.Contract, error) {
	return r.queryContracts(ctx, `
		SELECT id, number, client_name, client_document, description, amount_cents, recurrence_enabled, recurrence_day
		FROM contracts ORDER BY id DESC`)
}

// ListRecurringContracts returns contracts with recurrence enabled, the
// snapshot consumed by the recurrence engine.
func (r *SQLiteRepository) ListRecurringContracts(ctx context.Context) ([]core.Contract, error) {
	return r.queryContracts(ctx, `
		SELECT id, number, client_name, client_document, description, amount_cents, recurrence_enabled, recurrence_day
		FROM contracts WHERE recurrence_enabled = 1 ORDER BY id`)
}

func (r *SQLiteRepository) queryContracts(ctx context.Context, query string, args ...any) ([]core.Contract, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()

	var out []core.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (core.Contract, error) {
	var c core.Contract
	err := row.Scan(&c.ID, &c.Number, &c.ClientName, &c.ClientDocument,
		&c.Description, &c.Amount.Cents, &c.RecurrenceEnabled, &c.RecurrenceDay)
	return c, err
}

// CreateReceipt stores a receipt and returns its assigned ID. The unique
// (contract, month) index turns a duplicate auto-generated receipt into an
// error instead of a silent double issue.
func (r *SQLiteRepository) CreateReceipt(ctx context.Context, rc core.Receipt) (int64, error) {
	if err := rc.Validate(); err != nil {
		return 0, fmt.Errorf("validate receipt: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO receipts (number, client_name, amount_cents, description, issue_date, status, contract_id, export_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rc.Number, rc.ClientName, rc.Amount.Cents, rc.Description,
		rc.IssueDate.Format(dateLayout), string(rc.Status), rc.ContractID, ExportPending)
	if err != nil {
		return 0, fmt.Errorf("insert receipt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("receipt id: %w", err)
	}

	slog.InfoContext(ctx, "Receipt saved",
		"id", id,
		"number", rc.Number,
		"client", rc.ClientName,
		"amount_cents", rc.Amount.Cents,
		"issue_date", rc.IssueDate.Format(dateLayout))

	return id, nil
}

// GetReceipt loads a single receipt by ID.
func (r *SQLiteRepository) GetReceipt(ctx context.Context, id int64) (core.Receipt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, number, client_name, amount_cents, description, issue_date, status, contract_id
		FROM receipts WHERE id = ?`, id)
	rc, err := scanReceipt(row)
	if err != nil {
		return core.Receipt{}, fmt.Errorf("get receipt %d: %w", id, err)
	}
	return rc, nil
}

// ListReceiptsByMonth returns all receipts issued in the given year+month.
func (r *SQLiteRepository) ListReceiptsByMonth(ctx context.Context, year, month int) ([]core.Receipt, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	return r.queryReceipts(ctx, `
		SELECT id, number, client_name, amount_cents, description, issue_date, status, contract_id
		FROM receipts WHERE substr(issue_date, 1, 7) = ? ORDER BY issue_date, id`, prefix)
}

// ListPendingExportReceipts returns issued receipts not yet appended to the
// external ledger, oldest first.
func (r *SQLiteRepository) ListPendingExportReceipts(ctx context.Context, limit int) ([]core.Receipt, error) {
	return r.queryReceipts(ctx, `
		SELECT id, number, client_name, amount_cents, description, issue_date, status, contract_id
		FROM receipts WHERE export_status = ? AND status = ? ORDER BY id LIMIT ?`,
		ExportPending, string(core.StatusIssued), limit)
}

// MarkReceiptExported records a successful ledger append.
func (r *SQLiteRepository) MarkReceiptExported(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE receipts SET export_status = ?, exported_at = ? WHERE id = ?`,
		ExportDone, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark receipt %d exported: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) queryReceipts(ctx context.Context, query string, args ...any) ([]core.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var out []core.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func scanReceipt(row rowScanner) (core.Receipt, error) {
	var (
		rc     core.Receipt
		date   string
		status string
	)
	if err := row.Scan(&rc.ID, &rc.Number, &rc.ClientName, &rc.Amount.Cents,
		&rc.Description, &date, &status, &rc.ContractID); err != nil {
		return core.Receipt{}, err
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Receipt{}, fmt.Errorf("parse issue date %q: %w", date, err)
	}
	rc.IssueDate = core.Date{Time: t}
	rc.Status = core.ReceiptStatus(status)
	return rc, nil
}
