package amortization

import "math"

// accrualInput is a request after normalization, in full float precision.
type accrualInput struct {
	principal    float64
	rate         float64
	ratePeriod   RatePeriod
	years        float64
	cycle        RepaymentCycle
	installments int
}

// accrual holds the aggregate figures of one method before rounding.
type accrual struct {
	totalInterest       float64
	totalAmount         float64
	installmentAmount   float64
	effectiveAnnualRate float64
	periodicRate        float64
}

// finite rejects figures that cannot become decimals.
func (a accrual) finite() error {
	return checkFinite(a.totalInterest, a.totalAmount, a.installmentAmount, a.effectiveAnnualRate, a.periodicRate)
}

type accrualMethod interface {
	accrue(in accrualInput) (accrual, error)
	// declining reports whether interest follows the outstanding balance.
	declining() bool
}

// methods is the closed table of supported interest methods.
var methods = map[InterestMethod]accrualMethod{
	MethodFlat:            flatMethod{},
	MethodSimple:          simpleMethod{},
	MethodCompound:        compoundMethod{},
	MethodReducingBalance: reducingBalanceMethod{},
}

func evenSplit(principal, totalInterest float64, n int) accrual {
	total := principal + totalInterest
	return accrual{
		totalInterest:     totalInterest,
		totalAmount:       total,
		installmentAmount: total / float64(n),
	}
}

type flatMethod struct{}

func (flatMethod) declining() bool { return false }

func (flatMethod) accrue(in accrualInput) (accrual, error) {
	totalRate, err := totalRateFor(in.rate, in.ratePeriod, in.years)
	if err != nil {
		return accrual{}, err
	}
	a := evenSplit(in.principal, in.principal*totalRate, in.installments)
	if in.years > 0 {
		a.effectiveAnnualRate = totalRate / in.years
	}
	return a, checkFinite(a.totalAmount, a.effectiveAnnualRate)
}

type simpleMethod struct{}

func (simpleMethod) declining() bool { return false }

func (simpleMethod) accrue(in accrualInput) (accrual, error) {
	annual, err := annualRateFor(in.rate, in.ratePeriod, in.years)
	if err != nil {
		return accrual{}, err
	}
	a := evenSplit(in.principal, in.principal*annual*in.years, in.installments)
	a.effectiveAnnualRate = annual
	return a, checkFinite(a.totalAmount, annual)
}

type compoundMethod struct{}

func (compoundMethod) declining() bool { return false }

// accrue compounds once a year over the (possibly fractional) duration. A per_loan rate is
// charged exactly once over the whole loan.
func (compoundMethod) accrue(in accrualInput) (accrual, error) {
	annual, err := annualRateFor(in.rate, in.ratePeriod, in.years)
	if err != nil {
		return accrual{}, err
	}
	var total float64
	if in.ratePeriod == RatePerLoan {
		total = in.principal * (1 + in.rate)
	} else {
		total = in.principal * math.Pow(1+annual, in.years)
	}
	if err := checkFinite(total); err != nil {
		return accrual{}, err
	}
	a := evenSplit(in.principal, total-in.principal, in.installments)
	a.effectiveAnnualRate = annual
	return a, nil
}

type reducingBalanceMethod struct{}

func (reducingBalanceMethod) declining() bool { return true }

func (reducingBalanceMethod) accrue(in accrualInput) (accrual, error) {
	annual, err := annualRateFor(in.rate, in.ratePeriod, in.years)
	if err != nil {
		return accrual{}, err
	}
	r, err := ToPeriodicRate(annual, in.cycle)
	if err != nil {
		return accrual{}, err
	}
	cycles, _ := CyclesPerYear(in.cycle)
	n := float64(in.installments)
	if r == 0 {
		return accrual{
			totalAmount:       in.principal,
			installmentAmount: in.principal / n,
		}, checkFinite(in.principal)
	}
	pmt, err := AnnuityPayment(in.principal, in.installments, r)
	if err != nil {
		return accrual{}, err
	}
	total := pmt * n
	ear := math.Pow(1+r, float64(cycles)) - 1
	if err := checkFinite(total, ear); err != nil {
		return accrual{}, err
	}
	return accrual{
		totalInterest:       total - in.principal,
		totalAmount:         total,
		installmentAmount:   pmt,
		effectiveAnnualRate: ear,
		periodicRate:        r,
	}, nil
}

// AnnuityPayment is the level payment that amortizes principal over periods at rate r:
//
//	P * r * (1+r)^n / ((1+r)^n - 1)
func AnnuityPayment(principal float64, periods int, r float64) (float64, error) {
	if periods < 1 {
		return 0, ErrInvalidArgument
	}
	if r == 0 {
		return principal / float64(periods), nil
	}
	f := math.Pow(1+r, float64(periods))
	denominator := f - 1
	if denominator == 0 || math.IsInf(f, 0) {
		return 0, ErrArithmeticOverflow
	}
	pmt := principal * r * f / denominator
	if err := checkFinite(pmt); err != nil {
		return 0, err
	}
	return pmt, nil
}

func checkFinite(values ...float64) error {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return ErrArithmeticOverflow
		}
	}
	return nil
}
