// Package services provides business logic and orchestration services.
//
// This file implements the recurrence decision engine: a pure function that
// decides, for a given calendar day, which contracts need a new receipt
// issued. It performs no I/O and keeps no state; deduplication comes entirely
// from the receipt snapshot supplied by the caller.
package services

import (
	"fmt"

	"recibos/internal/core"
)

// DueWindowDays is the inclusive lookahead from "today" within which a
// contract's recurrence day triggers generation. A day that has already
// passed this month, or lies further ahead, is skipped until the caller
// re-evaluates (at least daily) closer to the date.
const DueWindowDays = 10

// AutoNumberPrefix marks receipts synthesized by the recurrence engine.
const AutoNumberPrefix = "RB-AUTO-"

// GenerateDue returns the receipts that must be newly created for the given
// day. A contract is due when recurrence is enabled and its recurrence day
// falls between today and today+DueWindowDays within the current month; no
// month-rollover arithmetic is performed. A contract that already has a
// receipt in the current month is skipped, which makes the function
// idempotent for a fixed input snapshot.
//
// Returned receipts carry no ID; the persistence layer assigns it. Output
// order is unspecified.
func GenerateDue(today core.Date, contracts []core.Contract, existing []core.Receipt) []core.Receipt {
	var due []core.Receipt
	for _, c := range contracts {
		if !c.RecurrenceEnabled {
			continue
		}
		delta := c.RecurrenceDay - today.Day()
		if delta < 0 || delta > DueWindowDays {
			continue
		}
		if hasReceiptInMonth(existing, c.ID, today) {
			continue
		}
		due = append(due, core.Receipt{
			Number:      AutoNumber(c, today.Year(), today.Month()),
			ClientName:  c.ClientName,
			Amount:      c.Amount,
			Description: c.Description,
			IssueDate:   core.NewDate(today.Year(), today.Month(), c.RecurrenceDay),
			Status:      core.StatusIssued,
			ContractID:  c.ID,
		})
	}
	return due
}

// AutoNumber builds the display code for an engine-generated receipt:
// RB-AUTO-<YYYY><MM>-<contract number>, falling back to the contract ID when
// no display number is set.
func AutoNumber(c core.Contract, year, month int) string {
	ref := c.Number
	if ref == "" {
		ref = fmt.Sprintf("%d", c.ID)
	}
	return fmt.Sprintf("%s%04d%02d-%s", AutoNumberPrefix, year, month, ref)
}

// hasReceiptInMonth reports whether the contract already has a receipt dated
// in the same calendar month as the event being prepared.
func hasReceiptInMonth(receipts []core.Receipt, contractID int64, month core.Date) bool {
	for _, r := range receipts {
		if r.ContractID == contractID && r.IssueDate.SameMonth(month) {
			return true
		}
	}
	return false
}
