// Package google implements the receipt ledger on a Google Sheets
// spreadsheet, one row per issued receipt.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"recibos/internal/core"
	"recibos/internal/export"
	"recibos/internal/extenso"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ export.LedgerWriter = (*Client)(nil)

// NewFromEnv creates a Sheets ledger client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS (service account).
// Optional: GOOGLE_SHEET_NAME (default "Recibos").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Recibos"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// Append writes one ledger row for the receipt: issue date, number, client,
// localized amount, spelled-out amount, and description.
func (c *Client) Append(ctx context.Context, r core.Receipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	values := &gsheet.ValueRange{
		Values: [][]interface{}{{
			r.IssueDate.Format("2006-01-02"),
			r.Number,
			r.ClientName,
			"R$ " + r.Amount.Display(),
			extenso.Amount(r.Amount),
			r.Description,
		}},
	}

	rng := fmt.Sprintf("%s!A:F", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append receipt row: %w", err)
	}

	rowRef := ""
	if resp.Updates != nil {
		rowRef = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Receipt appended to ledger",
		"number", r.Number,
		"client", r.ClientName,
		"amount_cents", r.Amount.Cents,
		"sheets_ref", rowRef)

	return rowRef, nil
}
