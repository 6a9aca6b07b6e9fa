// Package moneyutil provides the rounding and parsing rules shared by all
// money handling: two-decimal half-up rounding, exact N-way splits, and the
// Brazilian decimal/currency formats.
package moneyutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Round2 rounds to 2 decimal places, half up. All ledger values are
// positive, so decimal's half-away-from-zero is half-up here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Half returns round2(d / 2).
func Half(d decimal.Decimal) decimal.Decimal {
	return Round2(d.Div(two))
}

// Split divides total across n parts: the first n-1 parts are
// round2(total/n) and the last absorbs the remainder, so the parts always
// sum exactly to total. Panics if n < 1.
func Split(total decimal.Decimal, n int) []decimal.Decimal {
	if n < 1 {
		panic("moneyutil: split into fewer than one part")
	}
	per := Round2(total.Div(decimal.NewFromInt(int64(n))))
	parts := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		parts[i] = per
	}
	parts[n-1] = total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
	return parts
}

var nonAmount = regexp.MustCompile(`[^0-9,.\-]`)

// ParseBR parses a Brazilian-formatted decimal ("1.234,56", optionally with
// an "R$" prefix or stray text) into a decimal. The sign is preserved;
// callers wanting magnitudes take Abs.
func ParseBR(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, "R$", "")
	cleaned = nonAmount.ReplaceAllString(cleaned, "")
	// Thousands dots go away, the decimal comma becomes a dot.
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, fmt.Errorf("empty amount %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// FormatBRL renders a value as "R$ 1234.56" for the clean-CSV export.
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}
