package amortization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	today := time.Date(2026, time.October, 17, 15, 4, 5, 0, time.UTC)

	presets := Presets(today)
	require.Len(t, presets, len(presetCatalog))

	seen := map[string]bool{}
	for _, p := range presets {
		assert.False(t, seen[p.ID], "duplicate preset %s", p.ID)
		seen[p.ID] = true
		assert.Equal(t, date(2026, time.October, 17), p.Request.ReleaseDate)
		assert.NoError(t, Validate(p.Request), p.ID)
	}
}

func TestPresetByID(t *testing.T) {
	today := date(2026, time.October, 17)

	p, err := PresetByID("emergency_30d", today)
	require.NoError(t, err)
	assert.Equal(t, CycleBullet, p.Request.RepaymentCycle)
	assert.Equal(t, RatePerLoan, p.Request.RatePeriod)

	res, err := CalculateLoan(p.Request)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", res.TotalInterest.StringFixed(2))
	assert.Equal(t, date(2026, time.November, 17), res.MaturityDate)

	_, err = PresetByID("payday", today)
	assert.ErrorIs(t, err, ErrPresetNotFound)
}
