package domain

// Frequency is the recurrence pattern of a maintenance plan. The empty
// string means a single-occurrence plan.
type Frequency string

// Recognized frequency codes. The string values are fixed business codes
// shared with the persistence layer and the API; they are not configurable.
const (
	FrequencySingle       Frequency = ""
	FrequencyDaily        Frequency = "daily"
	FrequencyWeekly       Frequency = "weekly"
	FrequencyEvery15Days  Frequency = "15days"
	FrequencyEvery20Days  Frequency = "20days"
	FrequencyMonthly      Frequency = "monthly"
	FrequencyEvery2Months Frequency = "2months"
	FrequencyQuarterly    Frequency = "quarterly"
	FrequencyYearly       Frequency = "yearly"
)

// Frequencies lists every recognized recurring frequency code, in the order
// they are presented to clients.
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyEvery15Days,
	FrequencyEvery20Days,
	FrequencyMonthly,
	FrequencyEvery2Months,
	FrequencyQuarterly,
	FrequencyYearly,
}

// IsValid reports whether f is a recognized frequency code. The empty
// string is valid and denotes a single-occurrence plan.
func (f Frequency) IsValid() bool {
	if f == FrequencySingle {
		return true
	}
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// IsRecurring reports whether f describes more than one occurrence.
func (f Frequency) IsRecurring() bool {
	return f != FrequencySingle && f != FrequencyYearly && f.IsValid()
}
