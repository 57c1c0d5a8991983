package billing

import (
	"fmt"
	"time"
)

// periodCutoverDay is the day of month on which a new billing period begins.
// A period always runs from the 16th of one month to the 15th of the next.
const periodCutoverDay = 16

// BillingPeriod is the invoicing window used for all cost aggregation.
// Start is the 16th of a month at 00:00:00; End is the 15th of the following
// month at 23:59:59.999. Immutable value object.
type BillingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BillingPeriodContaining returns the billing period that encloses t.
// Dates on or after the 16th belong to the period starting that month;
// dates on the 15th or earlier belong to the period started the month before.
// Month arithmetic is normalized by time.Date, so December/January rollover
// needs no special casing.
func BillingPeriodContaining(t time.Time) BillingPeriod {
	year, month, day := t.Date()
	loc := t.Location()

	var start time.Time
	if day >= periodCutoverDay {
		start = time.Date(year, month, periodCutoverDay, 0, 0, 0, 0, loc)
	} else {
		start = time.Date(year, month-1, periodCutoverDay, 0, 0, 0, 0, loc)
	}

	return BillingPeriod{
		Start: start,
		End:   periodEndAfter(start),
	}
}

// BillingPeriodStarting returns the period that begins on the 16th of the
// given month, e.g. BillingPeriodStarting(2024, time.December, loc) covers
// 2024-12-16 through 2025-01-15.
func BillingPeriodStarting(year int, month time.Month, loc *time.Location) BillingPeriod {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, periodCutoverDay, 0, 0, 0, 0, loc)
	return BillingPeriod{
		Start: start,
		End:   periodEndAfter(start),
	}
}

func periodEndAfter(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month()+1, periodCutoverDay-1,
		23, 59, 59, int(999*time.Millisecond), start.Location())
}

// Contains reports whether t falls within the period (inclusive bounds).
func (p BillingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Label returns a stable identifier for the period, used in invoice numbers
// and ledger keys.
func (p BillingPeriod) Label() string {
	return fmt.Sprintf("%s-%s", p.Start.Format("20060102"), p.End.Format("20060102"))
}

// Mondays returns every Monday of the weeks that intersect the period, in
// ascending order. The weekly storage snapshot is taken on Mondays, so the
// first Monday may precede Start when the period begins mid-week.
func (p BillingPeriod) Mondays() []time.Time {
	first := mondayOnOrBefore(p.Start)
	last := mondayOnOrBefore(p.End)

	var mondays []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 7) {
		mondays = append(mondays, d)
	}
	return mondays
}

func mondayOnOrBefore(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
