package amortization

import "github.com/shopspring/decimal"

// InterestMethod selects how interest accrues over the loan.
type InterestMethod string

// InterestType only fixed has defined semantics; the others are accepted and treated as fixed.
type InterestType string

// RatePeriod is the period a quoted rate refers to.
type RatePeriod string

// DurationUnit is the unit a loan duration is expressed in.
type DurationUnit string

// RepaymentCycle is the spacing between two installments.
type RepaymentCycle string

type RollConvention string

type DayCountConv string

type Decimal = decimal.Decimal

type RoundStrategy = func(d decimal.Decimal) decimal.Decimal

const (
	MethodFlat            InterestMethod = "flat"
	MethodSimple          InterestMethod = "simple"
	MethodCompound        InterestMethod = "compound"
	MethodReducingBalance InterestMethod = "reducing_balance" // level installments
)

const (
	InterestFixed    InterestType = "fixed"
	InterestVariable InterestType = "variable"
	InterestStepped  InterestType = "stepped"
)

const (
	RateDaily   RatePeriod = "daily"
	RateWeekly  RatePeriod = "weekly"
	RateMonthly RatePeriod = "monthly"
	RateYearly  RatePeriod = "yearly"
	RatePerLoan RatePeriod = "per_loan" // total interest for the whole loan
)

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
	UnitYears  DurationUnit = "years"
)

const (
	CycleDaily        RepaymentCycle = "daily"
	CycleWeekly       RepaymentCycle = "weekly"
	CycleBiWeekly     RepaymentCycle = "bi_weekly"
	CycleMonthly      RepaymentCycle = "monthly"
	CycleQuarterly    RepaymentCycle = "quarterly"
	CycleSemiAnnually RepaymentCycle = "semi_annually"
	CycleAnnually     RepaymentCycle = "annually"
	CycleBullet       RepaymentCycle = "bullet" // single terminal payment
)

const (
	Unadjusted RollConvention = "UNADJUSTED"         // keep the calendar date
	Following  RollConvention = "FOLLOWING"          // next business day
	Preceding  RollConvention = "PRECEDING"          // previous business day
	ModFollow  RollConvention = "MODIFIED_FOLLOWING" // next business day unless that leaves the month
)

const (
	BONDBASIS   DayCountConv = "BONDBASIS"
	EUROBOND    DayCountConv = "EUROBOND"
	MONEYMARKET DayCountConv = "MONEYMARKET"
	FIXED       DayCountConv = "FIXED"
	ISDA        DayCountConv = "ISDA"
	AFB         DayCountConv = "AFB"
)

// Valid reports whether m is one of the supported interest methods.
func (m InterestMethod) Valid() bool {
	_, ok := methods[m]
	return ok
}

func (t InterestType) Valid() bool {
	switch t {
	case InterestFixed, InterestVariable, InterestStepped:
		return true
	}
	return false
}

func (p RatePeriod) Valid() bool {
	switch p {
	case RateDaily, RateWeekly, RateMonthly, RateYearly, RatePerLoan:
		return true
	}
	return false
}

func (u DurationUnit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}
	return false
}

func (c RepaymentCycle) Valid() bool {
	_, err := CyclesPerYear(c)
	return err == nil
}

func (r RollConvention) Valid() bool {
	switch r {
	case "", Unadjusted, Following, Preceding, ModFollow:
		return true
	}
	return false
}

// HalfUpRound rounds to cents, half away from zero.
var HalfUpRound = func(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

var BankRound = func(d decimal.Decimal) decimal.Decimal { return d.RoundBank(2) }

// Money rounds to cents.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
