// Package schedule implements the occurrence-date rules for recurring
// maintenance plans.
//
// Given a start date and a frequency code it produces the full, ordered
// sequence of occurrence dates for a plan, plus the end date stored on the
// plan record. Everything in this package is pure calendar arithmetic:
// dates are year/month/day values anchored at midnight in their own
// location, with no time-of-day component, so the results cannot shift
// across timezone boundaries.
package schedule

import (
	"time"

	"github.com/marchukov/upkeep-api/internal/domain"
)

// rule carries the two computations attached to one frequency code: the
// occurrence-date sequence and the stored end date. Dispatch is over this
// table rather than repeated string comparison so an unrecognized code has
// exactly one fallback path.
type rule struct {
	occurrences func(start time.Time) []time.Time
	endDate     func(start time.Time) time.Time
}

// rules is the closed set of frequency behaviors. These are fixed business
// rules, not configuration.
//
// Note the end dates deliberately disagree with the last occurrence for
// weekly, monthly, 2months, quarterly and yearly: those use a year-long
// span heuristic (start + 1 year - 1 day) regardless of the actual
// occurrence count. The two computations are kept separate on purpose; do
// not unify them without a product decision.
var rules = map[domain.Frequency]rule{
	domain.FrequencyDaily: {
		occurrences: consecutiveDays(365),
		endDate:     addDays(364),
	},
	domain.FrequencyWeekly: {
		occurrences: weeklyWithinOneYear,
		endDate:     oneYearSpan,
	},
	domain.FrequencyEvery15Days: {
		occurrences: consecutiveDays(15),
		endDate:     addDays(14),
	},
	domain.FrequencyEvery20Days: {
		occurrences: consecutiveDays(20),
		endDate:     addDays(19),
	},
	domain.FrequencyMonthly: {
		occurrences: monthSteps(1, 12),
		endDate:     oneYearSpan,
	},
	domain.FrequencyEvery2Months: {
		occurrences: monthSteps(2, 6),
		endDate:     oneYearSpan,
	},
	domain.FrequencyQuarterly: {
		occurrences: monthSteps(3, 4),
		endDate:     oneYearSpan,
	},
	domain.FrequencyYearly: {
		occurrences: singleOccurrence,
		endDate:     oneYearSpan,
	},
}

// DateOf strips the time-of-day component from t, anchoring the calendar
// date at midnight in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Occurrences returns the ordered, finite sequence of occurrence dates for
// a plan starting at start with the given frequency. The first element is
// always the start date itself. An unrecognized or absent frequency yields
// the degenerate single-element sequence [start].
//
// Month offsets use time.AddDate normalization: a month-end start date may
// roll into the following month (Jan 31 + 1 month is Mar 2 or Mar 3).
func Occurrences(start time.Time, freq domain.Frequency) []time.Time {
	start = DateOf(start)

	r, ok := rules[freq]
	if !ok {
		return []time.Time{start}
	}
	return r.occurrences(start)
}

// EndDate returns the end date stored on a plan assigned with the given
// frequency. For daily, 15days and 20days this equals the last occurrence;
// for the other recurring frequencies it is the year-span heuristic and
// only approximates the last occurrence. An unrecognized or absent
// frequency yields the start date itself.
func EndDate(start time.Time, freq domain.Frequency) time.Time {
	start = DateOf(start)

	r, ok := rules[freq]
	if !ok {
		return start
	}
	return r.endDate(start)
}

// consecutiveDays returns a generator for n consecutive dates beginning at
// the start date inclusive.
func consecutiveDays(n int) func(time.Time) []time.Time {
	return func(start time.Time) []time.Time {
		dates := make([]time.Time, n)
		for i := range dates {
			dates[i] = start.AddDate(0, 0, i)
		}
		return dates
	}
}

// monthSteps returns a generator for count dates spaced step calendar
// months apart, beginning at the start date.
func monthSteps(step, count int) func(time.Time) []time.Time {
	return func(start time.Time) []time.Time {
		dates := make([]time.Time, count)
		for i := range dates {
			dates[i] = start.AddDate(0, step*i, 0)
		}
		return dates
	}
}

// weeklyWithinOneYear generates dates every 7 days from the start date
// while strictly before start + 1 year.
func weeklyWithinOneYear(start time.Time) []time.Time {
	limit := start.AddDate(1, 0, 0)

	var dates []time.Time
	for d := start; d.Before(limit); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d)
	}
	return dates
}

func singleOccurrence(start time.Time) []time.Time {
	return []time.Time{start}
}

func addDays(n int) func(time.Time) time.Time {
	return func(start time.Time) time.Time {
		return start.AddDate(0, 0, n)
	}
}

// oneYearSpan is the end-date heuristic shared by the month-based and
// weekly frequencies: start + 1 year - 1 day.
func oneYearSpan(start time.Time) time.Time {
	return start.AddDate(1, 0, -1)
}
