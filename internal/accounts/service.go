package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/id"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/storage"
)

// Service provides account CRUD and balance mutation over a Store.
type Service struct {
	store storage.Store
}

// NewService creates an account Service.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// CreateParams holds parameters for creating an account.
type CreateParams struct {
	Name           string
	Bank           string
	Branch         string
	Number         string
	Type           model.AccountType
	InitialBalance decimal.Decimal
	SharedWithAlzi bool
}

// Create validates and persists a new account. The current balance starts
// equal to the initial balance and the account starts active.
func (s *Service) Create(ctx context.Context, p CreateParams) (model.Account, error) {
	if err := Validate(p.Name, p.Bank, p.Branch, p.Number, p.Type, p.InitialBalance); err != nil {
		return model.Account{}, err
	}

	now := time.Now().UTC()
	account := model.Account{
		ID:             id.New(),
		Name:           strings.TrimSpace(p.Name),
		Bank:           strings.TrimSpace(p.Bank),
		Branch:         strings.TrimSpace(p.Branch),
		Number:         strings.TrimSpace(p.Number),
		Type:           p.Type,
		InitialBalance: p.InitialBalance,
		Balance:        p.InitialBalance,
		SharedWithAlzi: p.SharedWithAlzi,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.InsertAccount(ctx, account); err != nil {
		return model.Account{}, fmt.Errorf("inserting account: %w", err)
	}
	return account, nil
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, accountID string) (model.Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

// List returns accounts, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]model.Account, error) {
	all, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return all, nil
	}
	var active []model.Account
	for _, a := range all {
		if a.Active {
			active = append(active, a)
		}
	}
	return active, nil
}

// Update applies a partial update to an account.
func (s *Service) Update(ctx context.Context, accountID string, patch model.AccountPatch) (model.Account, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, err
	}
	account = patch.Apply(account, time.Now().UTC())
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return model.Account{}, fmt.Errorf("updating account: %w", err)
	}
	return account, nil
}

// ApplyTransaction mutates the account balance for a transaction and
// persists the new balance. Used exclusively by the transaction engine.
func (s *Service) ApplyTransaction(ctx context.Context, accountID string, value decimal.Decimal, kind model.TransactionKind) (model.Account, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, err
	}
	balance, err := Apply(account, value, kind)
	if err != nil {
		return model.Account{}, err
	}
	account.Balance = balance
	account.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return model.Account{}, fmt.Errorf("updating balance: %w", err)
	}
	return account, nil
}

// Revert undoes a prior mutation by applying the inverse of kind. Unlike
// ApplyTransaction it skips the non-checking floor check: undoing a credit
// must always succeed, even when later debits already consumed the funds.
func (s *Service) Revert(ctx context.Context, accountID string, value decimal.Decimal, kind model.TransactionKind) (model.Account, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, err
	}
	if kind.Inverse() == model.Debit {
		account.Balance = account.Balance.Sub(value)
	} else {
		account.Balance = account.Balance.Add(value)
	}
	account.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return model.Account{}, fmt.Errorf("reverting balance: %w", err)
	}
	return account, nil
}

// Deactivate soft-deletes the account.
func (s *Service) Deactivate(ctx context.Context, accountID string) error {
	return s.setActive(ctx, accountID, false)
}

// Activate re-enables a deactivated account.
func (s *Service) Activate(ctx context.Context, accountID string) error {
	return s.setActive(ctx, accountID, true)
}

func (s *Service) setActive(ctx context.Context, accountID string, active bool) error {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	account.Active = active
	account.UpdatedAt = time.Now().UTC()
	return s.store.UpdateAccount(ctx, account)
}

// Delete hard-deletes an account. Accounts with transactions or a non-zero
// balance are refused; deactivate those instead.
func (s *Service) Delete(ctx context.Context, accountID string) error {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	txns, err := s.store.ListTransactions(ctx, storage.TransactionFilter{AccountID: accountID})
	if err != nil {
		return fmt.Errorf("checking transactions: %w", err)
	}

	if ok, reason := CanDelete(account, len(txns) > 0); !ok {
		return fmt.Errorf("cannot delete account %s: %s", accountID, reason)
	}
	return s.store.DeleteAccount(ctx, accountID)
}
