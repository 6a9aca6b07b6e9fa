package accounts

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidate_OK(t *testing.T) {
	err := Validate("Conta Corrente", "Bradesco", "1234", "56789-0", model.AccountChecking, dec("1000"))
	assert.NoError(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	err := Validate("x", "y", "12", "123", "weird", dec("0"))
	require.Error(t, err)
	assert.True(t, finance.IsValidation(err))

	var verr *finance.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 5)
}

func TestValidate_NegativeInitialBalance(t *testing.T) {
	// Checking may start overdrafted, savings may not.
	assert.NoError(t, Validate("Conta", "Banco", "1234", "56789", model.AccountChecking, dec("-50")))
	assert.Error(t, Validate("Conta", "Banco", "1234", "56789", model.AccountSavings, dec("-50")))
}

func TestApply_DebitAndCredit(t *testing.T) {
	a := model.Account{Type: model.AccountChecking, Balance: dec("1000.00")}

	balance, err := Apply(a, dec("150.00"), model.Debit)
	require.NoError(t, err)
	assert.Equal(t, "850.00", balance.StringFixed(2))

	balance, err = Apply(a, dec("200.00"), model.Credit)
	require.NoError(t, err)
	assert.Equal(t, "1200.00", balance.StringFixed(2))
}

func TestApply_CheckingMayOverdraft(t *testing.T) {
	a := model.Account{Type: model.AccountChecking, Balance: dec("100.00")}
	balance, err := Apply(a, dec("150.00"), model.Debit)
	require.NoError(t, err)
	assert.Equal(t, "-50.00", balance.StringFixed(2))
}

func TestApply_SavingsCannotGoNegative(t *testing.T) {
	a := model.Account{Type: model.AccountSavings, Balance: dec("100.00")}
	_, err := Apply(a, dec("150.00"), model.Debit)
	require.Error(t, err)
	assert.ErrorIs(t, err, finance.ErrInsufficientFunds)
}

func TestApply_InvestmentCannotGoNegative(t *testing.T) {
	a := model.Account{Type: model.AccountInvestment, Balance: dec("100.00")}
	_, err := Apply(a, dec("100.01"), model.Debit)
	assert.ErrorIs(t, err, finance.ErrInsufficientFunds)

	// Exactly to zero is fine.
	balance, err := Apply(a, dec("100.00"), model.Debit)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestCanDelete(t *testing.T) {
	empty := model.Account{Balance: decimal.Zero}

	ok, _ := CanDelete(empty, false)
	assert.True(t, ok)

	ok, reason := CanDelete(empty, true)
	assert.False(t, ok)
	assert.Contains(t, reason, "transactions")

	ok, reason = CanDelete(model.Account{Balance: dec("10")}, false)
	assert.False(t, ok)
	assert.Contains(t, reason, "balance")
}
