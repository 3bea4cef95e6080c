package amortization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEffectiveRates(t *testing.T) {
	for _, tc := range []struct {
		name   string
		rate   string
		period RatePeriod
	}{
		{"yearly", "0.12", RateYearly},
		{"monthly", "0.01", RateMonthly},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateEffectiveRates(dec(tc.rate), tc.period)
			require.NoError(t, err)

			assert.Equal(t, "0.12", got.NominalAnnual.Ratio.String())
			assert.Equal(t, "0.1275", got.DailyCompounding.Ratio.String())
			assert.Equal(t, "0.1273", got.WeeklyCompounding.Ratio.String())
			assert.Equal(t, "0.1268", got.MonthlyCompounding.Ratio.String())
			assert.Equal(t, "12.68", got.MonthlyCompounding.Percent.String())
			assert.Equal(t, "0.1255", got.QuarterlyCompounding.Ratio.String())
			assert.Equal(t, "0.12", got.AnnualCompounding.Ratio.String())
			assert.Equal(t, "12", got.AnnualCompounding.Percent.String())
		})
	}
}

func TestCalculateEffectiveRates_Zero(t *testing.T) {
	got, err := CalculateEffectiveRates(dec("0"), RateYearly)
	require.NoError(t, err)
	assert.True(t, got.DailyCompounding.Ratio.IsZero())
	assert.True(t, got.AnnualCompounding.Percent.IsZero())
}

func TestCalculateEffectiveRates_Rejects(t *testing.T) {
	_, err := CalculateEffectiveRates(dec("0.05"), RatePerLoan)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CalculateEffectiveRates(dec("-0.05"), RateYearly)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CalculateEffectiveRates(dec("0.05"), "hourly")
	assert.ErrorIs(t, err, ErrUnknownRatePeriod)
}

func TestCalculateEffectiveRates_Overflow(t *testing.T) {
	var err error
	require.NotPanics(t, func() { _, err = CalculateEffectiveRates(dec("1e306"), RateDaily) })
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}
