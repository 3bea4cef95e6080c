package amortization

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Preset is a named request bundle for a common product.
type Preset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Request     LoanRequest `json:"request"`
}

type presetSpec struct {
	id, name, description string
	principal             int64
	method                InterestMethod
	rate                  string
	ratePeriod            RatePeriod
	duration              int64
	unit                  DurationUnit
	cycle                 RepaymentCycle
	installments          int
}

var presetCatalog = []presetSpec{
	{"personal_6m", "Personal loan", "Six monthly installments on a declining balance",
		50000, MethodReducingBalance, "0.025", RateMonthly, 6, UnitMonths, CycleMonthly, 6},
	{"emergency_30d", "Emergency loan", "Thirty days, one bullet repayment, 5% for the loan",
		20000, MethodSimple, "0.05", RatePerLoan, 30, UnitDays, CycleBullet, 1},
	{"group_weekly_12w", "Group loan", "Twelve weekly installments at a flat weekly rate",
		10000, MethodFlat, "0.02", RateWeekly, 12, UnitWeeks, CycleWeekly, 12},
	{"business_12m", "Micro-business loan", "Twelve monthly installments on a declining balance",
		100000, MethodReducingBalance, "0.03", RateMonthly, 12, UnitMonths, CycleMonthly, 12},
	{"agri_seasonal", "Seasonal agriculture loan", "One year, quarterly installments, compounded annually",
		75000, MethodCompound, "0.24", RateYearly, 1, UnitYears, CycleQuarterly, 4},
	{"asset_biweekly", "Asset finance", "One year of bi-weekly installments on a declining balance",
		150000, MethodReducingBalance, "0.30", RateYearly, 52, UnitWeeks, CycleBiWeekly, 26},
}

func (p presetSpec) build(today time.Time) Preset {
	return Preset{
		ID:          p.id,
		Name:        p.name,
		Description: p.description,
		Request: LoanRequest{
			Principal:            decimal.NewFromInt(p.principal),
			ReleaseDate:          DateOf(today),
			InterestMethod:       p.method,
			InterestType:         InterestFixed,
			Rate:                 decimal.RequireFromString(p.rate),
			RatePeriod:           p.ratePeriod,
			Duration:             decimal.NewFromInt(p.duration),
			DurationUnit:         p.unit,
			RepaymentCycle:       p.cycle,
			NumberOfInstallments: p.installments,
			RollConvention:       Unadjusted,
		},
	}
}

// Presets returns the catalog with today as every release date.
func Presets(today time.Time) []Preset {
	out := make([]Preset, 0, len(presetCatalog))
	for _, p := range presetCatalog {
		out = append(out, p.build(today))
	}
	return out
}

func PresetByID(id string, today time.Time) (Preset, error) {
	for _, p := range presetCatalog {
		if p.id == id {
			return p.build(today), nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
}
