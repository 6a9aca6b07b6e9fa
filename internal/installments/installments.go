// Package installments splits a purchase value into calendar-spaced monthly
// installments.
package installments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
	"github.com/cofre-dev/cofre/internal/period"
)

// Allocate splits value into count monthly installments starting at
// firstDate. A count of one or less returns nil: the transaction is simply
// unparcelled. Installment i is due on the transaction's day of month
// advanced by i months, clamped to shorter months (31 Jan + 1 month is
// 29 Feb on a leap year). The last installment absorbs the rounding
// remainder so the values always sum exactly to value.
func Allocate(value decimal.Decimal, count int, firstDate time.Time) []model.Installment {
	if count <= 1 {
		return nil
	}

	values := moneyutil.Split(value, count)
	out := make([]model.Installment, count)
	for i := 0; i < count; i++ {
		out[i] = model.Installment{
			Number:  i + 1,
			Total:   count,
			Value:   values[i],
			DueDate: period.AddMonths(period.Truncate(firstDate), i),
		}
	}
	return out
}
