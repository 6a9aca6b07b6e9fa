package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a transaction.
type TransactionKind string

const (
	Debit  TransactionKind = "debit"
	Credit TransactionKind = "credit"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == Debit || k == Credit
}

// Inverse returns the kind that undoes k's effect on a balance or limit.
func (k TransactionKind) Inverse() TransactionKind {
	if k == Debit {
		return Credit
	}
	return Debit
}

// TransactionStatus is the lifecycle state of a transaction.
// The only modeled transition is processed -> cancelled.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusProcessed TransactionStatus = "processed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Installment is one scheduled portion of an installment purchase.
// It is created atomically with its parent transaction; only Paid
// is mutated afterwards.
type Installment struct {
	Number  int // 1-based
	Total   int
	Value   decimal.Decimal
	DueDate time.Time
	Paid    bool
}

// Transaction is a ledger movement against exactly one account or card.
type Transaction struct {
	ID             string
	Description    string
	Value          decimal.Decimal // always positive
	Kind           TransactionKind
	Date           time.Time
	Category       string
	AccountID      string // exactly one of AccountID/CardID is set
	CardID         string
	Installments   []Installment // empty unless an installment purchase
	Notes          string
	Status         TransactionStatus
	SharedWithAlzi bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Installmented reports whether the transaction is split into more than
// one installment.
func (t Transaction) Installmented() bool {
	return len(t.Installments) > 1
}

// PaidInstallments counts installments already marked paid.
func (t Transaction) PaidInstallments() int {
	n := 0
	for _, p := range t.Installments {
		if p.Paid {
			n++
		}
	}
	return n
}

// TransactionPatch enumerates the mutable Transaction fields for partial
// updates. Nil fields are left untouched. Value and Kind changes make the
// engine revert the old ledger mutation and apply a new one. The engine
// rejects Value changes on installmented transactions: installment values
// derive from the purchase value and are not recomputed.
type TransactionPatch struct {
	Description    *string
	Value          *decimal.Decimal
	Kind           *TransactionKind
	Date           *time.Time
	Category       *string
	Notes          *string
	SharedWithAlzi *bool
}

// Apply copies the non-nil patch fields onto t and bumps UpdatedAt.
func (p TransactionPatch) Apply(t Transaction, now time.Time) Transaction {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Value != nil {
		t.Value = *p.Value
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.SharedWithAlzi != nil {
		t.SharedWithAlzi = *p.SharedWithAlzi
	}
	t.UpdatedAt = now
	return t
}
