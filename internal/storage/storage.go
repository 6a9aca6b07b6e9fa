// Package storage defines the persistence contract for the ledger and the
// runtime selection between the two interchangeable backends: SQLite and a
// local JSON file. The engine is injected with a Store and never knows which
// backend is active.
package storage

import (
	"context"
	"time"

	"github.com/cofre-dev/cofre/internal/model"
)

// TransactionFilter narrows ListTransactions. Zero-valued fields do not
// filter. The date window is half-open: [From, To).
type TransactionFilter struct {
	AccountID  string
	CardID     string
	From       time.Time
	To         time.Time
	SharedOnly bool
}

// Matches reports whether t passes the filter. Backends without native query
// support use it directly; SQL backends mirror its semantics in WHERE clauses.
func (f TransactionFilter) Matches(t model.Transaction) bool {
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	if f.CardID != "" && t.CardID != f.CardID {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Date.Before(f.To) {
		return false
	}
	if f.SharedOnly && !t.SharedWithAlzi {
		return false
	}
	return true
}

// Store is the persistence backend contract: insert, find, update, and
// delete over the accounts, cards, and transactions collections. All writes
// are at most document-atomic; nothing here spans documents transactionally.
type Store interface {
	InsertAccount(ctx context.Context, a model.Account) error
	GetAccount(ctx context.Context, id string) (model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	UpdateAccount(ctx context.Context, a model.Account) error
	DeleteAccount(ctx context.Context, id string) error

	InsertCard(ctx context.Context, c model.Card) error
	GetCard(ctx context.Context, id string) (model.Card, error)
	ListCards(ctx context.Context) ([]model.Card, error)
	UpdateCard(ctx context.Context, c model.Card) error
	DeleteCard(ctx context.Context, id string) error

	InsertTransaction(ctx context.Context, t model.Transaction) error
	GetTransaction(ctx context.Context, id string) (model.Transaction, error)
	ListTransactions(ctx context.Context, f TransactionFilter) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, t model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	Close() error
}

// Backend names accepted in configuration. The factory switch lives with
// the CLI wiring; backends themselves only implement Store.
const (
	BackendSQLite   = "sqlite"
	BackendJSONFile = "jsonfile"
)
