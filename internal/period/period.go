// Package period provides month-safe date arithmetic: day clamping,
// calendar-month addition, period containment, and Brazilian period
// formatting. All functions work on day-granularity time.Time values in UTC.
package period

import (
	"fmt"
	"time"
)

// DateFormat is the canonical on-disk date representation.
const DateFormat = "2006-01-02"

// monthNames holds Portuguese month names, January first.
var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name for month (1-12).
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("Mês %d", month)
	}
	return monthNames[month-1]
}

// FormatPeriod renders a (year, month) pair as "Março/2024".
func FormatPeriod(year, month int) string {
	return fmt.Sprintf("%s/%d", MonthName(month), year)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns day limited to the last valid day of the month.
func ClampDay(day, year int, month time.Month) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// Date builds a UTC date at midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances d by n calendar months preserving the day of month when
// possible, clamping to the target month's last day otherwise. Unlike
// time.AddDate, Jan 31 + 1 month yields Feb 28/29, never Mar 2/3.
func AddMonths(d time.Time, n int) time.Time {
	year, month, day := d.Date()
	// Normalize target month into 1..12, rolling the year.
	m := int(month) + n
	y := year
	for m > 12 {
		m -= 12
		y++
	}
	for m < 1 {
		m += 12
		y--
	}
	return Date(y, time.Month(m), ClampDay(day, y, time.Month(m)))
}

// MonthRange returns the first and last day of the month.
func MonthRange(year int, month time.Month) (first, last time.Time) {
	first = Date(year, month, 1)
	last = Date(year, month, DaysInMonth(year, month))
	return first, last
}

// InRange reports whether d falls within [start, end]. When inclusive is
// false the bounds themselves are excluded.
func InRange(d, start, end time.Time, inclusive bool) bool {
	if inclusive {
		return !d.Before(start) && !d.After(end)
	}
	return d.After(start) && d.Before(end)
}

// Truncate drops the time-of-day component, keeping the UTC date.
func Truncate(d time.Time) time.Time {
	year, month, day := d.Date()
	return Date(year, month, day)
}

// dateLayouts are the accepted textual date formats, tried in order.
var dateLayouts = []string{
	DateFormat,            // 2024-03-15
	"02/01/2006",          // 15/03/2024
	"02-01-2006",          // 15-03-2024
	"2006-01-02T15:04:05", // 2024-03-15T10:30:00
	"2006-01-02 15:04:05", // 2024-03-15 10:30:00
	time.RFC3339,
}

// ParseDate parses a date in any of the accepted layouts, returning a UTC
// midnight value.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Truncate(t.UTC()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
