package installments

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofre-dev/cofre/internal/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAllocate_SingleIsNil(t *testing.T) {
	assert.Nil(t, Allocate(dec("100.00"), 1, period.Date(2024, time.March, 10)))
	assert.Nil(t, Allocate(dec("100.00"), 0, period.Date(2024, time.March, 10)))
}

func TestAllocate_RemainderOnLast(t *testing.T) {
	parts := Allocate(dec("100.00"), 3, period.Date(2024, time.January, 10))
	require.Len(t, parts, 3)

	assert.Equal(t, "33.33", parts[0].Value.StringFixed(2))
	assert.Equal(t, "33.33", parts[1].Value.StringFixed(2))
	assert.Equal(t, "33.34", parts[2].Value.StringFixed(2))

	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p.Value)
	}
	assert.True(t, sum.Equal(dec("100.00")))
}

func TestAllocate_Numbering(t *testing.T) {
	parts := Allocate(dec("300.00"), 3, period.Date(2024, time.January, 10))
	require.Len(t, parts, 3)
	for i, p := range parts {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, 3, p.Total)
		assert.False(t, p.Paid)
	}
}

func TestAllocate_DueDatesAdvanceMonthly(t *testing.T) {
	parts := Allocate(dec("300.00"), 3, period.Date(2024, time.March, 10))
	require.Len(t, parts, 3)
	assert.Equal(t, period.Date(2024, time.March, 10), parts[0].DueDate)
	assert.Equal(t, period.Date(2024, time.April, 10), parts[1].DueDate)
	assert.Equal(t, period.Date(2024, time.May, 10), parts[2].DueDate)
}

func TestAllocate_MonthEndClamping(t *testing.T) {
	// Purchase on Jan 31, 2024: the February installment lands on the 29th
	// (leap year), then back to the 31st in March.
	parts := Allocate(dec("300.00"), 3, period.Date(2024, time.January, 31))
	require.Len(t, parts, 3)
	assert.Equal(t, period.Date(2024, time.January, 31), parts[0].DueDate)
	assert.Equal(t, period.Date(2024, time.February, 29), parts[1].DueDate)
	assert.Equal(t, period.Date(2024, time.March, 31), parts[2].DueDate)
}

func TestAllocate_YearRollover(t *testing.T) {
	parts := Allocate(dec("200.00"), 2, period.Date(2024, time.December, 15))
	require.Len(t, parts, 2)
	assert.Equal(t, period.Date(2024, time.December, 15), parts[0].DueDate)
	assert.Equal(t, period.Date(2025, time.January, 15), parts[1].DueDate)
}
