// Package accounts holds the bank-account ledger: validation, balance
// mutation rules, and the storage-backed service.
package accounts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
)

// Validate checks account creation input. It returns a
// *finance.ValidationError carrying every problem found.
func Validate(name, bank, branch, number string, typ model.AccountType, initialBalance decimal.Decimal) error {
	var problems []string
	if len(strings.TrimSpace(name)) < 2 {
		problems = append(problems, "name must have at least 2 characters")
	}
	if len(strings.TrimSpace(bank)) < 2 {
		problems = append(problems, "bank must have at least 2 characters")
	}
	if len(strings.TrimSpace(branch)) < 3 {
		problems = append(problems, "branch must have at least 3 characters")
	}
	if len(strings.TrimSpace(number)) < 4 {
		problems = append(problems, "account number must have at least 4 characters")
	}
	if !typ.Valid() {
		problems = append(problems, fmt.Sprintf("unknown account type %q", typ))
	}
	if initialBalance.IsNegative() && typ != model.AccountChecking {
		problems = append(problems, "initial balance cannot be negative for savings and investment accounts")
	}
	return finance.Validation(problems)
}

// Apply returns the balance after a transaction: debit subtracts, credit
// adds. Checking accounts may overdraft; savings and investment accounts
// fail with finance.ErrInsufficientFunds when the debit would go negative.
func Apply(a model.Account, value decimal.Decimal, kind model.TransactionKind) (decimal.Decimal, error) {
	var next decimal.Decimal
	if kind == model.Debit {
		next = a.Balance.Sub(value)
	} else {
		next = a.Balance.Add(value)
	}
	if next.IsNegative() && a.Type != model.AccountChecking {
		return a.Balance, fmt.Errorf("%s balance %s cannot cover %s: %w",
			a.Type, a.Balance.StringFixed(2), value.StringFixed(2), finance.ErrInsufficientFunds)
	}
	return moneyutil.Round2(next), nil
}

// CanDelete reports whether the account may be hard-deleted. Accounts with
// transactions or a non-zero balance must be deactivated instead.
func CanDelete(a model.Account, hasTransactions bool) (bool, string) {
	if hasTransactions {
		return false, "account has transactions; deactivate it instead"
	}
	if !a.Balance.IsZero() {
		return false, "account balance must be zero"
	}
	return true, ""
}
