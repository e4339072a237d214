// Package export defines the outbound port for the receipt ledger: an
// external, append-only record of issued receipts (Google Sheets in
// production, an in-memory store in tests).
package export

import (
	"context"

	"recibos/internal/core"
)

// LedgerWriter appends an issued receipt to the external ledger and returns
// an adapter-specific row reference.
type LedgerWriter interface {
	Append(ctx context.Context, r core.Receipt) (rowRef string, err error)
}
