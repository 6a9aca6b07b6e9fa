package finance

import (
	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
)

// Overview is the consolidated position: balances across active accounts,
// limits across active cards, and the current month's spending.
type Overview struct {
	AccountCount   int
	CardCount      int
	TotalBalance   decimal.Decimal
	TotalLimit     decimal.Decimal
	AvailableLimit decimal.Decimal
	UsedLimit      decimal.Decimal
	MonthDebits    decimal.Decimal
	MonthCredits   decimal.Decimal
	MonthShared    decimal.Decimal
}

// BuildOverview computes the overview from active accounts, active cards,
// and the current month's transactions. Inactive records and cancelled
// transactions are skipped.
func BuildOverview(accounts []model.Account, cards []model.Card, monthTxns []model.Transaction) Overview {
	var o Overview

	for _, a := range accounts {
		if !a.Active {
			continue
		}
		o.AccountCount++
		o.TotalBalance = o.TotalBalance.Add(a.Balance)
	}

	for _, c := range cards {
		if !c.Active {
			continue
		}
		o.CardCount++
		o.TotalLimit = o.TotalLimit.Add(c.Limit)
		o.AvailableLimit = o.AvailableLimit.Add(c.AvailableLimit)
	}
	o.UsedLimit = o.TotalLimit.Sub(o.AvailableLimit)

	for _, t := range monthTxns {
		if t.Status == model.StatusCancelled {
			continue
		}
		switch t.Kind {
		case model.Debit:
			o.MonthDebits = o.MonthDebits.Add(t.Value)
			if t.SharedWithAlzi {
				o.MonthShared = o.MonthShared.Add(t.Value)
			}
		case model.Credit:
			o.MonthCredits = o.MonthCredits.Add(t.Value)
		}
	}

	o.TotalBalance = moneyutil.Round2(o.TotalBalance)
	o.TotalLimit = moneyutil.Round2(o.TotalLimit)
	o.AvailableLimit = moneyutil.Round2(o.AvailableLimit)
	o.UsedLimit = moneyutil.Round2(o.UsedLimit)
	o.MonthDebits = moneyutil.Round2(o.MonthDebits)
	o.MonthCredits = moneyutil.Round2(o.MonthCredits)
	o.MonthShared = moneyutil.Round2(o.MonthShared)
	return o
}
