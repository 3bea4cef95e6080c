package amortization

import (
	"fmt"
	"time"
)

type HolidayFunc func(time.Time) bool

// DateOf drops the clock time so due dates compare as calendar days.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDueDate advances last by one repayment cycle. Bullet loans advance one month.
func NextDueDate(last time.Time, cycle RepaymentCycle) (time.Time, error) {
	return stepDate(last, cycle, 1)
}

// stepDate moves t forward by n repayment cycles in one jump, so month-end dates clamp against
// each target month without drifting (Jan 31, Feb 28, Mar 31).
func stepDate(t time.Time, cycle RepaymentCycle, n int) (time.Time, error) {
	switch cycle {
	case CycleDaily:
		return t.AddDate(0, 0, n), nil
	case CycleWeekly:
		return t.AddDate(0, 0, 7*n), nil
	case CycleBiWeekly:
		return t.AddDate(0, 0, 14*n), nil
	case CycleMonthly, CycleBullet:
		return addMonths(t, n), nil
	case CycleQuarterly:
		return addMonths(t, 3*n), nil
	case CycleSemiAnnually:
		return addMonths(t, 6*n), nil
	case CycleAnnually:
		return addMonths(t, 12*n), nil
	default:
		return t, fmt.Errorf("%w: %q", ErrUnknownCycle, cycle)
	}
}

// addMonths steps whole calendar months, clamping to the last day of the target month
// (Jan 31 + 1 month = Feb 28) instead of spilling into the next one.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// DueDates walks n due dates starting at first, one cycle apart. The i-th date is counted from
// first, never from an adjusted date; the roll convention only moves the emitted date.
func DueDates(first time.Time, n int, cycle RepaymentCycle, roll RollConvention, isHoliday HolidayFunc) ([]time.Time, error) {
	if isHoliday == nil {
		isHoliday = func(time.Time) bool { return false }
	}
	dates := make([]time.Time, 0, n)
	first = DateOf(first)
	for i := 0; i < n; i++ {
		t, err := stepDate(first, cycle, i)
		if err != nil {
			return nil, err
		}
		d := applyRoll(t, roll, isHoliday)
		if i > 0 && !d.After(dates[i-1]) {
			return nil, fmt.Errorf("%w: %s roll moves installment %d onto or before %s",
				ErrInvalidArgument, roll, i+1, dates[i-1].Format(time.DateOnly))
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func applyRoll(t time.Time, roll RollConvention, isHoliday HolidayFunc) time.Time {
	switch roll {
	case Following:
		for isHoliday(t) {
			t = t.AddDate(0, 0, 1)
		}
		return t
	case Preceding:
		for isHoliday(t) {
			t = t.AddDate(0, 0, -1)
		}
		return t
	case ModFollow:
		origMonth := t.Month()
		t2 := t
		for isHoliday(t2) {
			t2 = t2.AddDate(0, 0, 1)
		}
		if t2.Month() != origMonth {
			t2 = t
			for isHoliday(t2) {
				t2 = t2.AddDate(0, 0, -1)
			}
		}
		return t2
	}
	return t
}
