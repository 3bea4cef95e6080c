package amortization

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// RateQuote is a rate as a ratio rounded to basis points, and as a percentage with two decimals.
type RateQuote struct {
	Ratio   decimal.Decimal `json:"ratio"`
	Percent decimal.Decimal `json:"percent"`
}

// EffectiveRates re-expresses a nominal rate under several compounding frequencies.
type EffectiveRates struct {
	NominalAnnual        RateQuote `json:"nominal_annual"`
	DailyCompounding     RateQuote `json:"daily_compounding"`
	WeeklyCompounding    RateQuote `json:"weekly_compounding"`
	MonthlyCompounding   RateQuote `json:"monthly_compounding"`
	QuarterlyCompounding RateQuote `json:"quarterly_compounding"`
	AnnualCompounding    RateQuote `json:"annual_compounding"`
}

func quote(ratio float64) RateQuote {
	r := decimal.NewFromFloat(ratio).Round(4)
	return RateQuote{Ratio: r, Percent: r.Mul(decimal.NewFromInt(100)).Round(2)}
}

// effectiveRate is (1 + annual/k)^k - 1.
func effectiveRate(annual float64, k int) (float64, error) {
	v := math.Pow(1+annual/float64(k), float64(k)) - 1
	if err := checkFinite(v); err != nil {
		return 0, err
	}
	return v, nil
}

// CalculateEffectiveRates annualizes nominalRate and compounds it daily, weekly, monthly,
// quarterly and annually. A per_loan rate has no duration to annualize against and is rejected.
func CalculateEffectiveRates(nominalRate decimal.Decimal, period RatePeriod) (EffectiveRates, error) {
	if nominalRate.IsNegative() {
		return EffectiveRates{}, fmt.Errorf("%w: rate must not be negative", ErrInvalidArgument)
	}
	if period == RatePerLoan {
		return EffectiveRates{}, fmt.Errorf("%w: per_loan rates cannot be annualized without a duration", ErrInvalidArgument)
	}
	annual, err := ToAnnualRate(nominalRate.InexactFloat64(), period)
	if err != nil {
		return EffectiveRates{}, err
	}
	if err := checkFinite(annual); err != nil {
		return EffectiveRates{}, err
	}
	out := EffectiveRates{NominalAnnual: quote(annual)}
	targets := []struct {
		k   int
		dst *RateQuote
	}{
		{365, &out.DailyCompounding},
		{52, &out.WeeklyCompounding},
		{12, &out.MonthlyCompounding},
		{4, &out.QuarterlyCompounding},
		{1, &out.AnnualCompounding},
	}
	for _, t := range targets {
		v, err := effectiveRate(annual, t.k)
		if err != nil {
			return EffectiveRates{}, err
		}
		*t.dst = quote(v)
	}
	return out, nil
}
