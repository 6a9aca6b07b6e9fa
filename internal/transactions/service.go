// Package transactions implements the ledger engine: creating, updating,
// cancelling, and deleting transactions while keeping account balances and
// card available-limits consistent, plus invoice grouping.
package transactions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/accounts"
	"github.com/cofre-dev/cofre/internal/cards"
	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/id"
	"github.com/cofre-dev/cofre/internal/installments"
	"github.com/cofre-dev/cofre/internal/invoice"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/period"
	"github.com/cofre-dev/cofre/internal/storage"
)

// MaxInstallments bounds installment purchases.
const MaxInstallments = 60

// Service is the transaction engine. All operations are synchronous and
// single-writer: concurrent calls against the same account or card need
// external mutual exclusion, because balance mutation is read-modify-write.
type Service struct {
	store    storage.Store
	accounts *accounts.Service
	cards    *cards.Service
}

// NewService creates a transaction Service.
func NewService(store storage.Store, accountSvc *accounts.Service, cardSvc *cards.Service) *Service {
	return &Service{store: store, accounts: accountSvc, cards: cardSvc}
}

// CreateParams holds parameters for creating a transaction. Date accepts
// ISO dates, ISO date-times, and DD/MM/YYYY.
type CreateParams struct {
	Description    string
	Value          decimal.Decimal
	Kind           model.TransactionKind
	Date           string
	Category       string
	AccountID      string
	CardID         string
	Installments   int
	Notes          string
	SharedWithAlzi bool
}

func (p CreateParams) validate() (time.Time, error) {
	var problems []string
	if len(strings.TrimSpace(p.Description)) < 2 {
		problems = append(problems, "description must have at least 2 characters")
	}
	if !p.Value.IsPositive() {
		problems = append(problems, "value must be greater than zero")
	}
	if !p.Kind.Valid() {
		problems = append(problems, fmt.Sprintf("unknown transaction kind %q", p.Kind))
	}
	date, dateErr := period.ParseDate(p.Date)
	if dateErr != nil {
		problems = append(problems, "invalid transaction date")
	}
	if p.AccountID == "" && p.CardID == "" {
		problems = append(problems, "transaction must reference an account or a card")
	}
	if p.AccountID != "" && p.CardID != "" {
		problems = append(problems, "transaction cannot reference both an account and a card")
	}
	if p.Installments > 1 && p.Kind == model.Credit {
		problems = append(problems, "only debits can be paid in installments")
	}
	if p.Installments > MaxInstallments {
		problems = append(problems, fmt.Sprintf("installments cannot exceed %d", MaxInstallments))
	}
	return date, finance.Validation(problems)
}

// Create validates the input, allocates installments, persists the
// transaction with status processed, and then mutates the linked account
// balance or card available-limit exactly once. Debits that a savings or
// investment account cannot cover are rejected before anything is written.
func (s *Service) Create(ctx context.Context, p CreateParams) (model.Transaction, error) {
	date, err := p.validate()
	if err != nil {
		return model.Transaction{}, err
	}

	// Existence and affordability checks before any write.
	if p.AccountID != "" {
		account, err := s.accounts.Get(ctx, p.AccountID)
		if err != nil {
			return model.Transaction{}, err
		}
		if _, err := accounts.Apply(account, p.Value, p.Kind); err != nil {
			return model.Transaction{}, err
		}
	}
	if p.CardID != "" {
		if _, err := s.cards.Get(ctx, p.CardID); err != nil {
			return model.Transaction{}, err
		}
	}

	now := time.Now().UTC()
	txn := model.Transaction{
		ID:             id.New(),
		Description:    strings.TrimSpace(p.Description),
		Value:          p.Value,
		Kind:           p.Kind,
		Date:           date,
		Category:       p.Category,
		AccountID:      p.AccountID,
		CardID:         p.CardID,
		Installments:   installments.Allocate(p.Value, p.Installments, date),
		Notes:          p.Notes,
		Status:         model.StatusProcessed,
		SharedWithAlzi: p.SharedWithAlzi,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.InsertTransaction(ctx, txn); err != nil {
		return model.Transaction{}, fmt.Errorf("inserting transaction: %w", err)
	}
	if err := s.mutate(ctx, txn, txn.Kind); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

// Get returns a transaction by ID.
func (s *Service) Get(ctx context.Context, transactionID string) (model.Transaction, error) {
	return s.store.GetTransaction(ctx, transactionID)
}

// List returns transactions matching the filter.
func (s *Service) List(ctx context.Context, f storage.TransactionFilter) ([]model.Transaction, error) {
	return s.store.ListTransactions(ctx, f)
}

// ListByMonth returns the month's transactions using a half-open
// [first-of-month, first-of-next-month) window.
func (s *Service) ListByMonth(ctx context.Context, year, month int, sharedOnly bool) ([]model.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, finance.Validation([]string{"month must be between 1 and 12"})
	}
	if year < 1900 || year > 2100 {
		return nil, finance.Validation([]string{"year must be between 1900 and 2100"})
	}
	from := period.Date(year, time.Month(month), 1)
	return s.store.ListTransactions(ctx, storage.TransactionFilter{
		From:       from,
		To:         period.AddMonths(from, 1),
		SharedOnly: sharedOnly,
	})
}

// Update applies a partial update. When the value or kind changes, the old
// ledger mutation is reverted before the new one is applied, so the two are
// never both in effect. Cancelled transactions are refused outright: their
// mutation was already reverted by Cancel and must not be touched again.
func (s *Service) Update(ctx context.Context, transactionID string, patch model.TransactionPatch) (model.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if txn.Status == model.StatusCancelled {
		return model.Transaction{}, finance.Validation([]string{"cancelled transactions cannot be updated"})
	}

	var problems []string
	if patch.Description != nil && len(strings.TrimSpace(*patch.Description)) < 2 {
		problems = append(problems, "description must have at least 2 characters")
	}
	if patch.Value != nil && !patch.Value.IsPositive() {
		problems = append(problems, "value must be greater than zero")
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		problems = append(problems, fmt.Sprintf("unknown transaction kind %q", *patch.Kind))
	}

	valueChanged := patch.Value != nil && !patch.Value.Equal(txn.Value)
	kindChanged := patch.Kind != nil && *patch.Kind != txn.Kind

	// Installment values derive from the purchase value; changing it would
	// leave them summing to the old total. Recreate the purchase instead.
	if valueChanged && txn.Installmented() {
		problems = append(problems, "value of an installment purchase cannot be changed")
	}
	if err := finance.Validation(problems); err != nil {
		return model.Transaction{}, err
	}

	next := patch.Apply(txn, time.Now().UTC())

	if valueChanged || kindChanged {
		if err := s.revert(ctx, txn); err != nil {
			return model.Transaction{}, fmt.Errorf("reverting previous mutation: %w", err)
		}
		if err := s.mutate(ctx, next, next.Kind); err != nil {
			return model.Transaction{}, fmt.Errorf("applying new mutation: %w", err)
		}
	}

	if err := s.store.UpdateTransaction(ctx, next); err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}
	return next, nil
}

// Cancel moves a processed transaction to cancelled (the terminal state)
// and reverts its ledger mutation. The record stays in the ledger.
func (s *Service) Cancel(ctx context.Context, transactionID string) (model.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if txn.Status == model.StatusCancelled {
		return model.Transaction{}, finance.Validation([]string{"transaction is already cancelled"})
	}

	if err := s.revert(ctx, txn); err != nil {
		return model.Transaction{}, fmt.Errorf("reverting mutation: %w", err)
	}

	txn.Status = model.StatusCancelled
	txn.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}
	return txn, nil
}

// CanDelete reports whether a transaction may be deleted. Cancelled
// transactions and transactions with paid installments are refused.
func CanDelete(t model.Transaction) (bool, string) {
	if t.Status == model.StatusCancelled {
		return false, "transaction is already cancelled"
	}
	if t.PaidInstallments() > 0 {
		return false, "transaction has paid installments"
	}
	return true, ""
}

// Delete reverts the transaction's ledger mutation and removes the record.
// Reversal never leaves a balance or limit outside valid bounds: card limits
// are capped at the total and checking balances have no floor.
func (s *Service) Delete(ctx context.Context, transactionID string) error {
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if ok, reason := CanDelete(txn); !ok {
		return fmt.Errorf("cannot delete transaction %s: %s", transactionID, reason)
	}

	if err := s.revert(ctx, txn); err != nil {
		return fmt.Errorf("reverting mutation: %w", err)
	}
	return s.store.DeleteTransaction(ctx, transactionID)
}

// GroupByInvoice buckets a card's transactions into derived invoices using
// the card's closing day.
func (s *Service) GroupByInvoice(ctx context.Context, cardID string) ([]invoice.Invoice, error) {
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactions(ctx, storage.TransactionFilter{CardID: cardID})
	if err != nil {
		return nil, err
	}
	return invoice.Group(txns, card.ClosingDay), nil
}

// mutate applies the balance or limit effect of txn with the given kind.
func (s *Service) mutate(ctx context.Context, txn model.Transaction, kind model.TransactionKind) error {
	switch {
	case txn.AccountID != "":
		_, err := s.accounts.ApplyTransaction(ctx, txn.AccountID, txn.Value, kind)
		return err
	case txn.CardID != "":
		_, err := s.cards.ApplyTransaction(ctx, txn.CardID, txn.Value, kind)
		return err
	}
	return nil
}

// revert undoes txn's ledger effect. Accounts take the unchecked path so a
// reversal can never be rejected; card limits are naturally bounded by the
// cap and floor in the card ledger.
func (s *Service) revert(ctx context.Context, txn model.Transaction) error {
	switch {
	case txn.AccountID != "":
		_, err := s.accounts.Revert(ctx, txn.AccountID, txn.Value, txn.Kind)
		return err
	case txn.CardID != "":
		_, err := s.cards.ApplyTransaction(ctx, txn.CardID, txn.Value, txn.Kind.Inverse())
		return err
	}
	return nil
}
