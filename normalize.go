package amortization

import "fmt"

// Conversion bases. Months are calendar-approximate (30 days) when expressed in days.
const (
	daysPerYear   = 365
	weeksPerYear  = 52
	monthsPerYear = 12
	daysPerWeek   = 7
	daysPerMonth  = 30
)

// ToAnnualRate annualizes a rate quoted per period. A per_loan rate is passed through unchanged;
// dividing it by the loan duration is the caller's decision (see annualRateFor).
func ToAnnualRate(rate float64, period RatePeriod) (float64, error) {
	switch period {
	case RateDaily:
		return rate * daysPerYear, nil
	case RateWeekly:
		return rate * weeksPerYear, nil
	case RateMonthly:
		return rate * monthsPerYear, nil
	case RateYearly, RatePerLoan:
		return rate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRatePeriod, period)
	}
}

// CyclesPerYear returns how many repayment cycles fit in a year. Bullet counts as one.
func CyclesPerYear(cycle RepaymentCycle) (int, error) {
	switch cycle {
	case CycleDaily:
		return 365, nil
	case CycleWeekly:
		return 52, nil
	case CycleBiWeekly:
		return 26, nil
	case CycleMonthly:
		return 12, nil
	case CycleQuarterly:
		return 4, nil
	case CycleSemiAnnually:
		return 2, nil
	case CycleAnnually, CycleBullet:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCycle, cycle)
	}
}

// ToPeriodicRate splits an annual rate across the cycles of one year.
func ToPeriodicRate(annualRate float64, cycle RepaymentCycle) (float64, error) {
	n, err := CyclesPerYear(cycle)
	if err != nil {
		return 0, err
	}
	return annualRate / float64(n), nil
}

func ToYears(duration float64, unit DurationUnit) (float64, error) {
	switch unit {
	case UnitDays:
		return duration / daysPerYear, nil
	case UnitWeeks:
		return duration / weeksPerYear, nil
	case UnitMonths:
		return duration / monthsPerYear, nil
	case UnitYears:
		return duration, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDurationUnit, unit)
	}
}

func ToDays(duration float64, unit DurationUnit) (float64, error) {
	switch unit {
	case UnitDays:
		return duration, nil
	case UnitWeeks:
		return duration * daysPerWeek, nil
	case UnitMonths:
		return duration * daysPerMonth, nil
	case UnitYears:
		return duration * daysPerYear, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDurationUnit, unit)
	}
}

// periodsPerYear is how many rate periods make a year; per_loan has none.
func periodsPerYear(period RatePeriod) (float64, error) {
	switch period {
	case RateDaily:
		return daysPerYear, nil
	case RateWeekly:
		return weeksPerYear, nil
	case RateMonthly:
		return monthsPerYear, nil
	case RateYearly:
		return 1, nil
	case RatePerLoan:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRatePeriod, period)
	}
}

// annualRateFor resolves the annual rate an interest method works with. A per_loan rate covers
// the whole loan once, so it is spread over the duration in years.
func annualRateFor(rate float64, period RatePeriod, years float64) (float64, error) {
	if period == RatePerLoan {
		if years <= 0 {
			return 0, nil
		}
		return rate / years, nil
	}
	return ToAnnualRate(rate, period)
}

// totalRateFor is the rate charged over the full duration, used by flat interest.
func totalRateFor(rate float64, period RatePeriod, years float64) (float64, error) {
	ppy, err := periodsPerYear(period)
	if err != nil {
		return 0, err
	}
	if period == RatePerLoan {
		return rate, nil
	}
	return rate * ppy * years, nil
}
