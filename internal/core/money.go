// Package core provides the domain model plus money parsing and formatting.
//
// This file contains the BRL display codec used by live monetary entry
// fields: raw digit stream <-> localized display string <-> cents. The codec
// never fails; malformed input degrades to zero or the empty string because
// it backs keystroke-by-keystroke form handlers.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//   ParseDecimalToCents("12.34") -> 1234, nil
//   ParseDecimalToCents("12,34") -> 1234, nil
//   ParseDecimalToCents("12.345") -> 1234, nil (rounds down)
//   ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	// Convert integer part - check for overflow
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Reais returns the BRL value as a float64 for display purposes.
// Note: Use cents for calculations to avoid floating-point precision issues.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// Display formats the amount with two decimals, "." thousands grouping and
// "," as decimal separator, independent of runtime locale.
// Money{0} -> "0,00"; Money{123450} -> "1.234,50".
func (m Money) Display() string {
	cents := m.Cents
	if cents < 0 {
		cents = -cents
	}
	intPart := groupThousands(strconv.FormatInt(cents/100, 10))
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return intPart + "," + frac
}

// DigitsToDisplay formats a raw digit stream as typed in a monetary entry
// field. Non-digit characters are discarded; the remaining digits are read as
// a base-100 fixed-point integer where the last two digits are cents.
// An empty stream yields "" so callers can distinguish "nothing typed" from
// an explicit zero. "5" -> "0,05"; "123456" -> "1.234,56".
func DigitsToDisplay(digits string) string {
	var b strings.Builder
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return ""
	}
	// Cap the stream instead of overflowing int64; anything this long is
	// keyboard noise, not an amount.
	if len(clean) > 15 {
		clean = clean[:15]
	}
	cents, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return ""
	}
	return Money{Cents: cents}.Display()
}

// ParseDisplay parses a localized display string back into Money. Thousands
// separators are removed and the decimal comma normalized before parsing.
// Malformed input yields Money{0}, never an error: the codec backs free-text
// entry fields where failures must be silent.
//
// Round-trip guarantee: ParseDisplay(m.Display()) == m for non-negative m.
func ParseDisplay(display string) Money {
	s := strings.TrimSpace(display)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return Money{}
	}
	return Money{Cents: int64(v*100 + 0.5)}
}

// groupThousands inserts "." separators into a plain digit string.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
