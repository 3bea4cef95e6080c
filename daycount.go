package amortization

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccruedInterest is the interest a balance earns at annualRate between start and end under a
// day-count convention. It prices early settlement between two due dates.
func (c *Calculator) AccruedInterest(balance, annualRate decimal.Decimal, start, end time.Time, conv DayCountConv) (decimal.Decimal, error) {
	if balance.IsNegative() || annualRate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: balance and rate must not be negative", ErrInvalidArgument)
	}
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return decimal.Zero, fmt.Errorf("%w: end %s before start %s", ErrInvalidArgument,
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	fraction, err := YearFraction(start, end, conv)
	if err != nil {
		return decimal.Zero, err
	}
	return c.round(balance.Mul(annualRate).Mul(fraction)), nil
}

type yearFractionFunc func(start, end time.Time) decimal.Decimal

func ratio(days, basis int) decimal.Decimal {
	return decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(int64(basis)))
}

var dayCounters = map[DayCountConv]yearFractionFunc{
	BONDBASIS:   func(s, e time.Time) decimal.Decimal { return ratio(Days360US(s, e)) },
	EUROBOND:    func(s, e time.Time) decimal.Decimal { return ratio(Days360E(s, e)) },
	MONEYMARKET: func(s, e time.Time) decimal.Decimal { return ratio(DaysAct360(s, e)) },
	FIXED:       func(s, e time.Time) decimal.Decimal { return ratio(DaysAct365(s, e)) },
	ISDA:        actActISDA,
	AFB: func(s, e time.Time) decimal.Decimal {
		return decimal.NewFromInt(int64(actualDays(s, e))).Div(decimal.NewFromFloat(365.25))
	},
}

// YearFraction is the share of a year between start and end under conv.
func YearFraction(start, end time.Time, conv DayCountConv) (decimal.Decimal, error) {
	f, ok := dayCounters[conv]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unsupported day count %q", ErrInvalidArgument, conv)
	}
	return f(start, end), nil
}

// thirty360 counts every month as 30 days. A 31st always becomes the 30th at the start; at the
// end it does under the European rule, and under the U.S. rule only once the start sits on the 30th.
func thirty360(start, end time.Time, european bool) int {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	d1 = min(d1, 30)
	if d2 == 31 && (european || d1 == 30) {
		d2 = 30
	}
	return 360*(y2-y1) + 30*int(m2-m1) + d2 - d1
}

// Days360US is 30/360 bond basis.
func Days360US(start, end time.Time) (int, int) { return thirty360(start, end, false), 360 }

// Days360E is 30E/360.
func Days360E(start, end time.Time) (int, int) { return thirty360(start, end, true), 360 }

func DaysAct360(start, end time.Time) (int, int) { return actualDays(start, end), 360 }

// DaysAct365 ignores leap days in the basis.
func DaysAct365(start, end time.Time) (int, int) { return actualDays(start, end), 365 }

// actActISDA splits the period at year boundaries and weights each piece by its own year length.
func actActISDA(start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for start.Before(end) {
		boundary := time.Date(start.Year()+1, 1, 1, 0, 0, 0, 0, time.UTC)
		if boundary.After(end) {
			boundary = end
		}
		total = total.Add(ratio(actualDays(start, boundary), YearDays(start)))
		start = boundary
	}
	return total
}

func actualDays(start, end time.Time) int {
	return int(DateOf(end).Sub(DateOf(start)).Hours() / 24)
}

// YearDays is the length of t's year: 366 in leap years.
func YearDays(t time.Time) int {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
