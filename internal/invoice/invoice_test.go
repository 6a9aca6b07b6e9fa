package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFor_BeforeClosingDay(t *testing.T) {
	// Closing day 5: a purchase on Mar 3 closes Mar 5 and is due in April.
	month, year := For(period.Date(2024, time.March, 3), 5)
	assert.Equal(t, 4, month)
	assert.Equal(t, 2024, year)
}

func TestFor_AfterClosingDay(t *testing.T) {
	// A purchase on Mar 10 misses the Mar 5 closing and is due in May.
	month, year := For(period.Date(2024, time.March, 10), 5)
	assert.Equal(t, 5, month)
	assert.Equal(t, 2024, year)
}

func TestFor_OnClosingDay(t *testing.T) {
	// The closing day itself still makes the earlier invoice.
	month, year := For(period.Date(2024, time.March, 5), 5)
	assert.Equal(t, 4, month)
	assert.Equal(t, 2024, year)
}

func TestFor_YearRollover(t *testing.T) {
	month, year := For(period.Date(2024, time.December, 20), 5)
	assert.Equal(t, 2, month)
	assert.Equal(t, 2025, year)

	month, year = For(period.Date(2024, time.November, 30), 5)
	assert.Equal(t, 1, month)
	assert.Equal(t, 2025, year)
}

func TestFor_ClosingDayClampedInShortMonth(t *testing.T) {
	// Closing day 31 in February clamps to Feb 29 (2024): the 29th is still
	// inside the closing cycle.
	month, year := For(period.Date(2024, time.February, 29), 31)
	assert.Equal(t, 3, month)
	assert.Equal(t, 2024, year)
}

func TestPeriod_Window(t *testing.T) {
	// April invoice with closing day 5 covers Feb 6 through Mar 5.
	start, end := Period(4, 2024, 5)
	assert.Equal(t, period.Date(2024, time.February, 6), start)
	assert.Equal(t, period.Date(2024, time.March, 5), end)
}

func TestPeriod_YearRollover(t *testing.T) {
	// January invoice reaches back into the previous year.
	start, end := Period(1, 2025, 10)
	assert.Equal(t, period.Date(2024, time.November, 11), start)
	assert.Equal(t, period.Date(2024, time.December, 10), end)
}

func TestPeriod_ClampsShortMonths(t *testing.T) {
	// Closing day 31: the window into February ends on its last day.
	start, end := Period(4, 2024, 31)
	assert.Equal(t, period.Date(2024, time.March, 1), start) // Feb 29 + 1 day
	assert.Equal(t, period.Date(2024, time.March, 31), end)
}

func TestForAndPeriod_AreInverses(t *testing.T) {
	// Every day of 2024 must fall inside the window of the invoice it is
	// assigned to, for a spread of closing days.
	for _, closing := range []int{1, 5, 15, 28, 31} {
		d := period.Date(2024, time.January, 1)
		for d.Year() == 2024 {
			month, year := For(d, closing)
			start, end := Period(month, year, closing)
			assert.True(t, period.InRange(d, start, end, true),
				"closing=%d date=%s window=[%s, %s]", closing,
				d.Format("2006-01-02"), start.Format("2006-01-02"), end.Format("2006-01-02"))
			d = d.AddDate(0, 0, 1)
		}
	}
}

func cardTxn(day int, value string, shared bool) model.Transaction {
	return model.Transaction{
		ID:             value,
		Value:          dec(value),
		Kind:           model.Debit,
		Date:           period.Date(2024, time.March, day),
		CardID:         "card-1",
		Status:         model.StatusProcessed,
		SharedWithAlzi: shared,
	}
}

func TestGroup(t *testing.T) {
	txns := []model.Transaction{
		cardTxn(3, "100.00", false),  // April invoice
		cardTxn(4, "50.00", true),    // April invoice
		cardTxn(10, "200.00", false), // May invoice
	}

	invoices := Group(txns, 5)
	require.Len(t, invoices, 2)

	april := invoices[0]
	assert.Equal(t, 4, april.Month)
	assert.Equal(t, 2024, april.Year)
	assert.Equal(t, "2024-04", april.Key())
	assert.Equal(t, "Abril/2024", april.Display())
	assert.Len(t, april.Transactions, 2)
	assert.Equal(t, "150.00", april.TotalDebits.StringFixed(2))
	assert.Equal(t, "50.00", april.SharedDebits.StringFixed(2))

	may := invoices[1]
	assert.Equal(t, 5, may.Month)
	assert.Len(t, may.Transactions, 1)
	assert.Equal(t, "200.00", may.TotalDebits.StringFixed(2))
}

func TestGroup_CreditsExcludedFromTotals(t *testing.T) {
	refund := cardTxn(3, "30.00", false)
	refund.Kind = model.Credit

	invoices := Group([]model.Transaction{cardTxn(2, "100.00", false), refund}, 5)
	require.Len(t, invoices, 1)
	assert.Len(t, invoices[0].Transactions, 2)
	assert.Equal(t, "100.00", invoices[0].TotalDebits.StringFixed(2))
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil, 5))
}
