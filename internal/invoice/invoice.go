// Package invoice resolves credit-card billing cycles: which statement a
// transaction belongs to, the date window a statement covers, and grouping
// of transactions into invoices. Invoices are derived on demand and never
// persisted.
package invoice

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/id"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
	"github.com/cofre-dev/cofre/internal/period"
)

// For returns the (month, year) of the invoice a transaction belongs to,
// given the card's closing day. A statement closes on the closing day
// (clamped to short months); purchases after it roll into the following
// cycle. Invoices are named after their due month, one cycle past the
// closing month, so: day > closing -> two months ahead, otherwise one.
func For(transactionDate time.Time, closingDay int) (month, year int) {
	d := period.Truncate(transactionDate)
	closing := period.ClampDay(closingDay, d.Year(), d.Month())

	ahead := 1
	if d.Day() > closing {
		ahead = 2
	}
	due := period.AddMonths(period.Date(d.Year(), d.Month(), 1), ahead)
	return int(due.Month()), due.Year()
}

// Period returns the statement window for an invoice: from the day after
// the closing day two months before the invoice month, through the closing
// day one month before, both clamped to valid days.
func Period(invoiceMonth, invoiceYear, closingDay int) (start, end time.Time) {
	anchor := period.Date(invoiceYear, time.Month(invoiceMonth), 1)

	prev := period.AddMonths(anchor, -2) // month the previous statement closed in
	txn := period.AddMonths(anchor, -1)  // month this statement closes in

	start = period.Date(prev.Year(), prev.Month(),
		period.ClampDay(closingDay, prev.Year(), prev.Month())).AddDate(0, 0, 1)
	end = period.Date(txn.Year(), txn.Month(),
		period.ClampDay(closingDay, txn.Year(), txn.Month()))
	return start, end
}

// Invoice is a derived grouping of a card's transactions for one statement.
type Invoice struct {
	Month        int
	Year         int
	Start        time.Time
	End          time.Time
	Transactions []model.Transaction
	TotalDebits  decimal.Decimal
	SharedDebits decimal.Decimal
}

// Key returns the invoice grouping key, e.g. "2025-04".
func (inv Invoice) Key() string {
	return id.FormatInvoiceKey(inv.Year, inv.Month)
}

// Display renders the invoice period as "Abril/2025".
func (inv Invoice) Display() string {
	return period.FormatPeriod(inv.Year, inv.Month)
}

// Group buckets transactions by the invoice they belong to, with per-bucket
// debit and shared-debit totals. Buckets come back sorted chronologically.
func Group(transactions []model.Transaction, closingDay int) []Invoice {
	buckets := make(map[string]*Invoice)
	for _, t := range transactions {
		month, year := For(t.Date, closingDay)
		key := id.FormatInvoiceKey(year, month)

		inv, ok := buckets[key]
		if !ok {
			start, end := Period(month, year, closingDay)
			inv = &Invoice{Month: month, Year: year, Start: start, End: end}
			buckets[key] = inv
		}
		inv.Transactions = append(inv.Transactions, t)
		if t.Kind == model.Debit {
			inv.TotalDebits = moneyutil.Round2(inv.TotalDebits.Add(t.Value))
			if t.SharedWithAlzi {
				inv.SharedDebits = moneyutil.Round2(inv.SharedDebits.Add(t.Value))
			}
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Invoice, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}
