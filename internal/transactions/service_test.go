package transactions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofre-dev/cofre/internal/accounts"
	"github.com/cofre-dev/cofre/internal/cards"
	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/storage"
	"github.com/cofre-dev/cofre/internal/storage/jsonfile"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	svc      *Service
	accounts *accounts.Service
	cards    *cards.Service
	account  model.Account
	card     model.Card
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "cofre.json"))
	require.NoError(t, err)

	accountSvc := accounts.NewService(store)
	cardSvc := cards.NewService(store)
	svc := NewService(store, accountSvc, cardSvc)

	account, err := accountSvc.Create(ctx, accounts.CreateParams{
		Name:           "Conta Corrente",
		Bank:           "Bradesco",
		Branch:         "1234",
		Number:         "56789-0",
		Type:           model.AccountChecking,
		InitialBalance: dec("1000.00"),
	})
	require.NoError(t, err)

	card, err := cardSvc.Create(ctx, cards.CreateParams{
		Name:       "Cartão Principal",
		Bank:       "Bradesco",
		Brand:      model.BrandVisa,
		Limit:      dec("5000.00"),
		DueDay:     15,
		ClosingDay: 5,
	})
	require.NoError(t, err)

	return &fixture{svc: svc, accounts: accountSvc, cards: cardSvc, account: account, card: card}
}

func (f *fixture) accountBalance(t *testing.T) string {
	t.Helper()
	a, err := f.accounts.Get(context.Background(), f.account.ID)
	require.NoError(t, err)
	return a.Balance.StringFixed(2)
}

func (f *fixture) cardAvailable(t *testing.T) string {
	t.Helper()
	c, err := f.cards.Get(context.Background(), f.card.ID)
	require.NoError(t, err)
	return c.AvailableLimit.StringFixed(2)
}

func debitParams(f *fixture, value string) CreateParams {
	return CreateParams{
		Description: "Mercado",
		Value:       dec(value),
		Kind:        model.Debit,
		Date:        "2024-03-10",
		Category:    "Alimentação",
		AccountID:   f.account.ID,
	}
}

func TestCreate_AccountDebit(t *testing.T) {
	f := newFixture(t)

	txn, err := f.svc.Create(context.Background(), debitParams(f, "150.00"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, txn.Status)
	assert.Equal(t, "850.00", f.accountBalance(t))
}

func TestCreate_AccountCredit(t *testing.T) {
	f := newFixture(t)

	p := debitParams(f, "200.00")
	p.Kind = model.Credit
	p.Description = "Salário"
	_, err := f.svc.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "1200.00", f.accountBalance(t))
}

func TestCreate_CardDebit(t *testing.T) {
	f := newFixture(t)

	p := debitParams(f, "300.00")
	p.AccountID = ""
	p.CardID = f.card.ID
	_, err := f.svc.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "4700.00", f.cardAvailable(t))
	assert.Equal(t, "1000.00", f.accountBalance(t))
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"short description", func(p *CreateParams) { p.Description = "x" }},
		{"zero value", func(p *CreateParams) { p.Value = decimal.Zero }},
		{"negative value", func(p *CreateParams) { p.Value = dec("-10") }},
		{"bad kind", func(p *CreateParams) { p.Kind = "transfer" }},
		{"bad date", func(p *CreateParams) { p.Date = "notadate" }},
		{"no account or card", func(p *CreateParams) { p.AccountID = "" }},
		{"both account and card", func(p *CreateParams) { p.CardID = f.card.ID }},
		{"installments on credit", func(p *CreateParams) { p.Kind = model.Credit; p.Installments = 3 }},
		{"too many installments", func(p *CreateParams) { p.Installments = MaxInstallments + 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := debitParams(f, "10.00")
			tc.mutate(&p)
			_, err := f.svc.Create(ctx, p)
			assert.True(t, finance.IsValidation(err), "got %v", err)
		})
	}

	// Nothing was written and nothing mutated.
	assert.Equal(t, "1000.00", f.accountBalance(t))
}

func TestCreate_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	p := debitParams(f, "10.00")
	p.AccountID = "missing"
	_, err := f.svc.Create(context.Background(), p)
	assert.ErrorIs(t, err, finance.ErrNotFound)
}

func TestCreate_InsufficientFundsRejectedBeforeWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	savings, err := f.accounts.Create(ctx, accounts.CreateParams{
		Name:           "Poupança",
		Bank:           "Bradesco",
		Branch:         "1234",
		Number:         "99999-9",
		Type:           model.AccountSavings,
		InitialBalance: dec("50.00"),
	})
	require.NoError(t, err)

	p := debitParams(f, "100.00")
	p.AccountID = savings.ID
	_, err = f.svc.Create(ctx, p)
	assert.ErrorIs(t, err, finance.ErrInsufficientFunds)

	// The rejected transaction must not exist.
	txns, err := f.svc.List(ctx, storage.TransactionFilter{AccountID: savings.ID})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreate_WithInstallments(t *testing.T) {
	f := newFixture(t)

	p := debitParams(f, "100.00")
	p.AccountID = ""
	p.CardID = f.card.ID
	p.Installments = 3
	p.Date = "2024-01-31"

	txn, err := f.svc.Create(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, txn.Installments, 3)
	assert.Equal(t, "33.33", txn.Installments[0].Value.StringFixed(2))
	assert.Equal(t, "33.34", txn.Installments[2].Value.StringFixed(2))
	assert.Equal(t, 29, txn.Installments[1].DueDate.Day()) // Feb 2024 clamp

	// The full value hits the limit at once.
	assert.Equal(t, "4900.00", f.cardAvailable(t))
}

func TestListByMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, debitParams(f, "10.00"))
	require.NoError(t, err)

	p := debitParams(f, "20.00")
	p.Date = "2024-04-02"
	_, err = f.svc.Create(ctx, p)
	require.NoError(t, err)

	march, err := f.svc.ListByMonth(ctx, 2024, 3, false)
	require.NoError(t, err)
	assert.Len(t, march, 1)

	april, err := f.svc.ListByMonth(ctx, 2024, 4, false)
	require.NoError(t, err)
	assert.Len(t, april, 1)
}

func TestListByMonth_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListByMonth(ctx, 2024, 13, false)
	assert.True(t, finance.IsValidation(err))

	_, err = f.svc.ListByMonth(ctx, 1800, 5, false)
	assert.True(t, finance.IsValidation(err))
}

func TestUpdate_ValueChangeRebalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, debitParams(f, "150.00"))
	require.NoError(t, err)
	require.Equal(t, "850.00", f.accountBalance(t))

	newValue := dec("200.00")
	_, err = f.svc.Update(ctx, txn.ID, model.TransactionPatch{Value: &newValue})
	require.NoError(t, err)
	assert.Equal(t, "800.00", f.accountBalance(t))
}

func TestUpdate_KindChangeRebalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, debitParams(f, "100.00"))
	require.NoError(t, err)
	require.Equal(t, "900.00", f.accountBalance(t))

	credit := model.Credit
	_, err = f.svc.Update(ctx, txn.ID, model.TransactionPatch{Kind: &credit})
	require.NoError(t, err)
	assert.Equal(t, "1100.00", f.accountBalance(t))
}

func TestUpdate_RefusesCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, debitParams(f, "150.00"))
	require.NoError(t, err)
	require.Equal(t, "850.00", f.accountBalance(t))

	_, err = f.svc.Cancel(ctx, txn.ID)
	require.NoError(t, err)
	require.Equal(t, "1000.00", f.accountBalance(t))

	// Cancel already reverted the mutation; an update must not revert it
	// again and re-apply with the new value.
	newValue := dec("200.00")
	_, err = f.svc.Update(ctx, txn.ID, model.TransactionPatch{Value: &newValue})
	assert.True(t, finance.IsValidation(err), "got %v", err)
	assert.Equal(t, "1000.00", f.accountBalance(t))
}

func TestUpdate_RefusesValueChangeOnInstallments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := debitParams(f, "300.00")
	p.AccountID = ""
	p.CardID = f.card.ID
	p.Installments = 3
	txn, err := f.svc.Create(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "4700.00", f.cardAvailable(t))

	// Installment values sum to the purchase value; changing it would leave
	// them stale.
	newValue := dec("450.00")
	_, err = f.svc.Update(ctx, txn.ID, model.TransactionPatch{Value: &newValue})
	assert.True(t, finance.IsValidation(err), "got %v", err)
	assert.Equal(t, "4700.00", f.cardAvailable(t))

	// Other fields stay editable.
	desc := "Notebook"
	updated, err := f.svc.Update(ctx, txn.ID, model.TransactionPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Notebook", updated.Description)
}

func TestUpdate_DescriptionOnlyLeavesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, debitParams(f, "100.00"))
	require.NoError(t, err)

	desc := "Feira"
	updated, err := f.svc.Update(ctx, txn.ID, model.TransactionPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Feira", updated.Description)
	assert.Equal(t, "900.00", f.accountBalance(t))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, debitParams(f, "100.00"))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, "1000.00", f.accountBalance(t))

	// The record stays in the ledger.
	got, err := f.svc.Get(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	// Cancelling twice is refused: the reversal must not run again.
	_, err = f.svc.Cancel(ctx, txn.ID)
	assert.True(t, finance.IsValidation(err))
	assert.Equal(t, "1000.00", f.accountBalance(t))
}

func TestDelete_RevertsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, debitParams(f, "150.00"))
	require.NoError(t, err)
	require.Equal(t, "850.00", f.accountBalance(t))

	require.NoError(t, f.svc.Delete(ctx, txn.ID))
	assert.Equal(t, "1000.00", f.accountBalance(t))

	_, err = f.svc.Get(ctx, txn.ID)
	assert.ErrorIs(t, err, finance.ErrNotFound)
}

func TestDelete_RevertsCardLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := debitParams(f, "300.00")
	p.AccountID = ""
	p.CardID = f.card.ID
	txn, err := f.svc.Create(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "4700.00", f.cardAvailable(t))

	require.NoError(t, f.svc.Delete(ctx, txn.ID))
	assert.Equal(t, "5000.00", f.cardAvailable(t))
}

func TestDelete_RefusesCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.Create(ctx, debitParams(f, "100.00"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, txn.ID)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, txn.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestCanDelete_PaidInstallments(t *testing.T) {
	txn := model.Transaction{
		Status: model.StatusProcessed,
		Installments: []model.Installment{
			{Number: 1, Total: 2, Paid: true},
			{Number: 2, Total: 2},
		},
	}
	ok, reason := CanDelete(txn)
	assert.False(t, ok)
	assert.Contains(t, reason, "paid installments")
}

func TestGroupByInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2024-03-03", "2024-03-10"} {
		p := debitParams(f, "100.00")
		p.AccountID = ""
		p.CardID = f.card.ID
		p.Date = date
		_, err := f.svc.Create(ctx, p)
		require.NoError(t, err)
	}

	invoices, err := f.svc.GroupByInvoice(ctx, f.card.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "2024-04", invoices[0].Key())
	assert.Equal(t, "2024-05", invoices[1].Key())
}
