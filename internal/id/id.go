// Package id generates record identifiers and formats invoice keys.
package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// New returns a fresh unique record ID.
func New() string {
	return uuid.NewString()
}

// FormatInvoiceKey returns an invoice grouping key like "2025-04".
func FormatInvoiceKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseInvoiceKey parses "2025-04" into year and month.
func ParseInvoiceKey(key string) (year, month int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid invoice key format: %q", key)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in invoice key %q: %w", key, err)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in invoice key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in invoice key %q", key)
	}
	return year, month, nil
}
