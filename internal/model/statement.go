package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementEntry is one row parsed out of a bank statement file, before it
// is matched against the ledger and turned into a Transaction.
type StatementEntry struct {
	Date        time.Time
	Description string
	Value       decimal.Decimal
	Kind        TransactionKind
	Category    string
	Notes       string
}
