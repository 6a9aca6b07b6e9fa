// Package finance holds the error kinds and cross-cutting report types
// shared by the ledger services.
package finance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means a referenced account, card, or transaction ID is absent.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds rejects a debit that would drive a savings or
	// investment account negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientLimit rejects a card purchase above the available limit.
	ErrInsufficientLimit = errors.New("insufficient limit")

	// ErrDuplicate marks a statement row already present in the ledger.
	// Import skips the row; it is never fatal for the batch.
	ErrDuplicate = errors.New("duplicate transaction")

	// ErrUnknownFormat means a statement file matched no known bank layout.
	ErrUnknownFormat = errors.New("unrecognized statement format")
)

// ValidationError reports caller-correctable input problems. It carries every
// problem found, not just the first.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Problems, "; "))
}

// Validation builds a *ValidationError from the collected problems, or
// returns nil when there are none.
func Validation(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
