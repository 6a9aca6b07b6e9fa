// Package cards holds the credit-card ledger: validation, available-limit
// mutation rules, and the storage-backed service.
package cards

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
)

// ValidBillingDay reports whether day is a possible day of month.
func ValidBillingDay(day int) bool {
	return day >= 1 && day <= 31
}

// Validate checks card creation input. It returns a
// *finance.ValidationError carrying every problem found.
func Validate(name, bank string, brand model.CardBrand, limit decimal.Decimal, dueDay, closingDay int) error {
	var problems []string
	if len(strings.TrimSpace(name)) < 2 {
		problems = append(problems, "name must have at least 2 characters")
	}
	if len(strings.TrimSpace(bank)) < 2 {
		problems = append(problems, "bank must have at least 2 characters")
	}
	if !brand.Valid() {
		problems = append(problems, fmt.Sprintf("unknown card brand %q", brand))
	}
	if !limit.IsPositive() {
		problems = append(problems, "limit must be greater than zero")
	}
	if !ValidBillingDay(dueDay) {
		problems = append(problems, "due day must be between 1 and 31")
	}
	if !ValidBillingDay(closingDay) {
		problems = append(problems, "closing day must be between 1 and 31")
	}
	if ValidBillingDay(dueDay) && dueDay == closingDay {
		problems = append(problems, "due day must differ from closing day")
	}
	return finance.Validation(problems)
}

// ApplyDebit returns the available limit after a purchase, floored at zero.
func ApplyDebit(available, value decimal.Decimal) decimal.Decimal {
	next := available.Sub(value)
	if next.IsNegative() {
		next = decimal.Zero
	}
	return moneyutil.Round2(next)
}

// ApplyCredit returns the available limit after a payment or reversal,
// capped at the total limit.
func ApplyCredit(available, total, value decimal.Decimal) decimal.Decimal {
	next := available.Add(value)
	if next.GreaterThan(total) {
		next = total
	}
	return moneyutil.Round2(next)
}

// CanAfford pre-checks a purchase against the available limit, failing with
// finance.ErrInsufficientLimit. The engine itself does not block purchases;
// callers wanting affordability enforcement use this predicate first.
func CanAfford(available, value decimal.Decimal) error {
	if value.GreaterThan(available) {
		return fmt.Errorf("available limit %s cannot cover %s: %w",
			available.StringFixed(2), value.StringFixed(2), finance.ErrInsufficientLimit)
	}
	return nil
}

// CanDelete reports whether the card may be hard-deleted. Cards with
// transactions or limit in use must be deactivated instead.
func CanDelete(c model.Card, hasTransactions bool) (bool, string) {
	if hasTransactions {
		return false, "card has transactions; deactivate it instead"
	}
	if !c.AvailableLimit.Equal(c.Limit) {
		return false, "card has limit in use"
	}
	return true, ""
}
