// Package domain holds the core banking and industrial-operations types
// shared by every service. Documents are stored as JSON; the struct tags
// here define the wire contract.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout renders timestamps so lexicographic order equals
// chronological order, which the journal relies on for sorting.
const TimestampLayout = "2006-01-02T15:04:05.000000"

func init() {
	// Amounts are JSON numbers on the wire, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// IsNumericID reports whether s is a non-empty string of ASCII digits.
// Account and payment-method ids must satisfy this before any lookup.
func IsNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
