package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusIssued    ReceiptStatus = "issued"
	StatusDraft     ReceiptStatus = "draft"
	StatusCancelled ReceiptStatus = "cancelled"
)

// Recurrence days are clamped to 1-28 so the target day exists in every month.
const (
	MinRecurrenceDay = 1
	MaxRecurrenceDay = 28
)

type (
	ReceiptStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Contract is a recurring billing agreement with a client. Contracts are
	// owned by the persistence layer; the recurrence engine only reads them.
	Contract struct {
		ID                int64  // Database ID for operations
		Number            string // Display code, e.g. "CONT-001" (optional)
		ClientName        string
		ClientDocument    string // CPF/CNPJ, display only
		Description       string
		Amount            Money
		RecurrenceEnabled bool
		RecurrenceDay     int // 1-28
	}

	// Receipt is a single issued (or draft) payment receipt. Generated
	// receipts carry a back-reference to their originating contract.
	Receipt struct {
		ID          int64 // Database ID, zero until persisted
		Number      string
		ClientName  string
		Amount      Money
		Description string
		IssueDate   Date
		Status      ReceiptStatus
		ContractID  int64 // zero for manually created receipts
	}
)

var (
	ErrInvalidDay           = errors.New("invalid day")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyClientName      = errors.New("empty client name")
	ErrEmptyDescription     = errors.New("empty description")
	ErrInvalidRecurrenceDay = errors.New("recurrence day out of range")
	ErrInvalidStatus        = errors.New("invalid receipt status")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	// Check basic ranges
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// SameMonth reports whether both dates fall in the same calendar year+month.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s ReceiptStatus) Validate() error {
	switch s {
	case StatusIssued, StatusDraft, StatusCancelled:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// ClampRecurrenceDay forces a day-of-month into the 1-28 range. Applied at
// the persistence boundary so the recurrence engine never sees a day that is
// missing from short months.
func ClampRecurrenceDay(day int) int {
	if day < MinRecurrenceDay {
		return MinRecurrenceDay
	}
	if day > MaxRecurrenceDay {
		return MaxRecurrenceDay
	}
	return day
}

func (c Contract) Validate() error {
	if len(strings.TrimSpace(c.ClientName)) == 0 {
		return ErrEmptyClientName
	}
	if len(strings.TrimSpace(c.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(c.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := c.Amount.Validate(); err != nil {
		return err
	}
	if c.RecurrenceEnabled {
		if c.RecurrenceDay < MinRecurrenceDay || c.RecurrenceDay > MaxRecurrenceDay {
			return ErrInvalidRecurrenceDay
		}
	}
	return nil
}

func (r Receipt) Validate() error {
	if err := r.IssueDate.Validate(); err != nil {
		return errors.New("invalid issue date: " + err.Error())
	}
	if len(strings.TrimSpace(r.ClientName)) == 0 {
		return ErrEmptyClientName
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.Status.Validate()
}
