// Package alzi computes the 50/50 shared-expense reports: per-transaction
// splits, monthly and annual summaries, and settlement statements between
// the ledger owner and the fixed counterparty.
package alzi

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
	"github.com/cofre-dev/cofre/internal/period"
)

// Split is the 50/50 division of one amount. Both shares are rounded
// independently (half up), so on odd-cent totals the shares may not sum
// back to the total by one cent. That asymmetry is the historical behavior
// and is kept on purpose; see SplitAmount.
type Split struct {
	Total             decimal.Decimal
	CounterpartyShare decimal.Decimal
	OwnShare          decimal.Decimal
}

// SplitAmount divides total 50/50. Each share is round2(total x 0.5)
// computed independently rather than own = total - counterparty, so
// SplitAmount(99.99) yields 50.00 + 50.00.
func SplitAmount(total decimal.Decimal) Split {
	return Split{
		Total:             moneyutil.Round2(total),
		CounterpartyShare: moneyutil.Half(total),
		OwnShare:          moneyutil.Half(total),
	}
}

// CategoryTotal aggregates shared debits of one category.
type CategoryTotal struct {
	Category          string
	Count             int
	Total             decimal.Decimal
	CounterpartyShare decimal.Decimal
}

// MonthlySummary reports one month of shared expenses. A month with no
// shared debits produces the zero value with Count 0, never nil maps or
// missing totals.
type MonthlySummary struct {
	Year              int
	Month             int
	Count             int
	Total             decimal.Decimal
	CounterpartyShare decimal.Decimal
	OwnShare          decimal.Decimal
	ByCategory        []CategoryTotal
	AccountTotal      decimal.Decimal // shared debits paid from accounts
	CardTotal         decimal.Decimal // shared debits paid with cards
	Largest           *model.Transaction
	Smallest          *model.Transaction
}

// Display renders the summary period as "Abril/2025".
func (s MonthlySummary) Display() string {
	return period.FormatPeriod(s.Year, s.Month)
}

const uncategorized = "Sem categoria"

// Summarize builds the monthly summary from a month's transactions. Only
// shared debits count as expenses; everything else is ignored.
func Summarize(year, month int, txns []model.Transaction) MonthlySummary {
	summary := MonthlySummary{Year: year, Month: month}

	byCategory := make(map[string]*CategoryTotal)
	for i := range txns {
		t := txns[i]
		if t.Kind != model.Debit || !t.SharedWithAlzi {
			continue
		}

		summary.Count++
		summary.Total = summary.Total.Add(t.Value)

		category := t.Category
		if category == "" {
			category = uncategorized
		}
		ct, ok := byCategory[category]
		if !ok {
			ct = &CategoryTotal{Category: category}
			byCategory[category] = ct
		}
		ct.Count++
		ct.Total = ct.Total.Add(t.Value)

		if t.AccountID != "" {
			summary.AccountTotal = summary.AccountTotal.Add(t.Value)
		} else if t.CardID != "" {
			summary.CardTotal = summary.CardTotal.Add(t.Value)
		}

		if summary.Largest == nil || t.Value.GreaterThan(summary.Largest.Value) {
			summary.Largest = &txns[i]
		}
		if summary.Smallest == nil || t.Value.LessThan(summary.Smallest.Value) {
			summary.Smallest = &txns[i]
		}
	}

	summary.Total = moneyutil.Round2(summary.Total)
	summary.CounterpartyShare = moneyutil.Half(summary.Total)
	summary.OwnShare = moneyutil.Half(summary.Total)

	for _, ct := range byCategory {
		ct.Total = moneyutil.Round2(ct.Total)
		ct.CounterpartyShare = moneyutil.Half(ct.Total)
		summary.ByCategory = append(summary.ByCategory, *ct)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	return summary
}

// Settlement is the read-side statement of what the counterparty owes for a
// period. It never mutates the ledger.
type Settlement struct {
	Year              int
	Month             int
	Total             decimal.Decimal
	OwnShare          decimal.Decimal
	CounterpartyShare decimal.Decimal
	Method            string
	ByCategory        []CategoryTotal
}

// Settle computes the 50/50 settlement for a month's transactions.
func Settle(year, month int, txns []model.Transaction) Settlement {
	summary := Summarize(year, month, txns)
	return Settlement{
		Year:              year,
		Month:             month,
		Total:             summary.Total,
		OwnShare:          summary.OwnShare,
		CounterpartyShare: summary.CounterpartyShare,
		Method:            "50/50",
		ByCategory:        summary.ByCategory,
	}
}

// AnnualSummary rolls twelve monthly summaries up into a year view.
type AnnualSummary struct {
	Year              int
	Total             decimal.Decimal
	CounterpartyShare decimal.Decimal
	OwnShare          decimal.Decimal
	MonthlyAverage    decimal.Decimal
	Months            []MonthlySummary
	HighestMonth      int // 1-12, 0 when the year has no shared expenses
	LowestMonth       int // among months with expenses
}

// SummarizeYear builds the annual roll-up from per-month transaction
// slices indexed 1..12.
func SummarizeYear(year int, byMonth map[int][]model.Transaction) AnnualSummary {
	annual := AnnualSummary{Year: year, Months: make([]MonthlySummary, 0, 12)}

	for month := 1; month <= 12; month++ {
		summary := Summarize(year, month, byMonth[month])
		annual.Months = append(annual.Months, summary)
		annual.Total = annual.Total.Add(summary.Total)

		if summary.Count == 0 {
			continue
		}
		if annual.HighestMonth == 0 || summary.Total.GreaterThan(annual.Months[annual.HighestMonth-1].Total) {
			annual.HighestMonth = month
		}
		if annual.LowestMonth == 0 || summary.Total.LessThan(annual.Months[annual.LowestMonth-1].Total) {
			annual.LowestMonth = month
		}
	}

	annual.Total = moneyutil.Round2(annual.Total)
	annual.CounterpartyShare = moneyutil.Half(annual.Total)
	annual.OwnShare = moneyutil.Half(annual.Total)
	annual.MonthlyAverage = moneyutil.Round2(annual.Total.Div(decimal.NewFromInt(12)))
	return annual
}
