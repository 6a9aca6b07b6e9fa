package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies bank accounts.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment:
		return true
	}
	return false
}

// Account is a bank account row in the accounts collection.
type Account struct {
	ID             string
	Name           string
	Bank           string
	Branch         string
	Number         string
	Type           AccountType
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal // current balance, mutated by the transaction engine
	SharedWithAlzi bool
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountPatch enumerates the mutable Account fields for partial updates.
// Nil fields are left untouched.
type AccountPatch struct {
	Name           *string
	Bank           *string
	Branch         *string
	Number         *string
	SharedWithAlzi *bool
}

// Apply copies the non-nil patch fields onto a and bumps UpdatedAt.
func (p AccountPatch) Apply(a Account, now time.Time) Account {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Bank != nil {
		a.Bank = *p.Bank
	}
	if p.Branch != nil {
		a.Branch = *p.Branch
	}
	if p.Number != nil {
		a.Number = *p.Number
	}
	if p.SharedWithAlzi != nil {
		a.SharedWithAlzi = *p.SharedWithAlzi
	}
	a.UpdatedAt = now
	return a
}
