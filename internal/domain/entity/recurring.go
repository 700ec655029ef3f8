package entity

import (
	"fmt"
	"time"
)

// Frequency is how often a recurring invoice is re-issued.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// RecurringSchedule describes a repeating invoice.
type RecurringSchedule struct {
	Frequency Frequency  `json:"frequency"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Validate checks the frequency is known
func (r RecurringSchedule) Validate() error {
	switch r.Frequency {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return nil
	default:
		return fmt.Errorf("unknown frequency %q", r.Frequency)
	}
}

// NextOccurrences returns up to n issue dates strictly after from, stopping at
// the end date (inclusive) when one is set. Month steps are computed from the
// anchor and clamped to the month's last day, so the 31st never drifts.
func (r RecurringSchedule) NextOccurrences(from time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := 1; len(out) < n; i++ {
		next := r.occurrence(from, i)
		if r.EndDate != nil && next.After(*r.EndDate) {
			break
		}
		out = append(out, next)
	}
	return out
}

func (r RecurringSchedule) occurrence(from time.Time, i int) time.Time {
	if r.Frequency == FrequencyWeekly {
		return from.AddDate(0, 0, 7*i)
	}

	months := i
	if r.Frequency == FrequencyQuarterly {
		months = 3 * i
	}
	y, m, d := from.Date()
	first := time.Date(y, m+time.Month(months), 1, from.Hour(), from.Minute(), from.Second(), 0, from.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, from.Hour(), from.Minute(), from.Second(), 0, from.Location())
}
