package core

import "strconv"

// monthlyPerMille maps each recurring cadence to its monthly multiplier,
// expressed per-mille so the conversion stays in integer arithmetic.
//
// The values are fixed averages (occurrences-per-year / 12 on a 52.14
// weeks/year basis), not derived from the calendar days of any particular
// month. That keeps projections stable and comparable across months at the
// cost of small drift versus calendar-exact accounting; the approximation
// is intentional. Adding a cadence is one row here plus a test.
var monthlyPerMille = map[Frequency]int64{
	Weekly:    4330, // 4.33
	Biweekly:  2170, // 2.17
	Monthly:   1000, // 1.00
	Quarterly: 330,  // 0.33
	Yearly:    83,   // 0.083
}

// MultiplierFor returns the per-mille monthly multiplier for a frequency.
// An unrecognized frequency is a ValidationError, never treated as monthly.
func MultiplierFor(f Frequency) (int64, error) {
	m, ok := monthlyPerMille[f]
	if !ok {
		return 0, &ValidationError{Field: "frequency", Reason: "unknown frequency " + strconv.Quote(string(f))}
	}
	return m, nil
}

// MonthlyEquivalent rescales an amount to its average contribution per
// calendar month. Callers must have validated the frequency already; an
// unknown value still errors rather than defaulting.
func MonthlyEquivalent(amount Money, f Frequency) (Money, error) {
	m, err := MultiplierFor(f)
	if err != nil {
		return Money{}, err
	}
	return amount.MulPerMille(m), nil
}

// Frequencies lists the recognized cadences in projection display order.
func Frequencies() []Frequency {
	return []Frequency{Weekly, Biweekly, Monthly, Quarterly, Yearly}
}
