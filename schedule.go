package amortization

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleParams describes a schedule from already known aggregate figures.
type ScheduleParams struct {
	Principal            decimal.Decimal
	InstallmentAmount    decimal.Decimal
	TotalInterest        decimal.Decimal
	NumberOfInstallments int
	FirstPaymentDate     time.Time
	RepaymentCycle       RepaymentCycle
	InterestMethod       InterestMethod
	// PeriodicRate is only read by reducing_balance; when zero it is implied from the
	// principal, installment and count.
	PeriodicRate   decimal.Decimal
	RollConvention RollConvention
	Fees           []Fee
}

// schedulePlan is everything the fold needs, already in cents.
type schedulePlan struct {
	principal     decimal.Decimal
	installment   decimal.Decimal
	totalInterest decimal.Decimal
	periodicRate  decimal.Decimal
	declining     bool
	dueDates      []time.Time
	fees          []Fee
}

// scheduleState is the running state carried from one installment to the next.
type scheduleState struct {
	balance      decimal.Decimal
	cumPrincipal decimal.Decimal
	cumInterest  decimal.Decimal
}

// GenerateSchedule builds an installment schedule from aggregate figures.
func (c *Calculator) GenerateSchedule(p ScheduleParams) ([]Installment, error) {
	var errs ValidationErrors
	if p.Principal.LessThan(minPrincipal) {
		errs.add("principal", "must be at least %s", minPrincipal)
	}
	if p.NumberOfInstallments < 1 {
		errs.add("number_of_installments", "must be at least 1")
	}
	if p.InstallmentAmount.IsNegative() {
		errs.add("installment_amount", "must not be negative")
	}
	if p.TotalInterest.IsNegative() {
		errs.add("total_interest", "must not be negative")
	}
	if p.PeriodicRate.IsNegative() {
		errs.add("periodic_rate", "must not be negative")
	}
	if !p.InterestMethod.Valid() {
		errs.add("interest_method", "unknown interest method %q", p.InterestMethod)
	}
	if !p.RepaymentCycle.Valid() {
		errs.add("repayment_cycle", "unknown repayment cycle %q", p.RepaymentCycle)
	}
	if !p.RollConvention.Valid() {
		errs.add("roll_convention", "unknown roll convention %q", p.RollConvention)
	}
	if p.RepaymentCycle == CycleBullet && p.NumberOfInstallments > 1 {
		errs.add("number_of_installments", "bullet loans have exactly one installment")
	}
	if p.FirstPaymentDate.IsZero() {
		errs.add("first_payment_date", "is required")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	method := methods[p.InterestMethod]
	rate := p.PeriodicRate
	if method.declining() && rate.IsZero() && p.TotalInterest.IsPositive() {
		r, err := ImpliedPeriodicRate(p.Principal.InexactFloat64(), p.InstallmentAmount.InexactFloat64(), p.NumberOfInstallments)
		if err != nil {
			return nil, err
		}
		rate = decimal.NewFromFloat(r)
	}
	dates, err := DueDates(p.FirstPaymentDate, p.NumberOfInstallments, p.RepaymentCycle, p.RollConvention, c.cfg.Holiday.IsHoliday)
	if err != nil {
		return nil, err
	}
	return c.buildSchedule(schedulePlan{
		principal:     c.round(p.Principal),
		installment:   c.round(p.InstallmentAmount),
		totalInterest: c.round(p.TotalInterest),
		periodicRate:  rate,
		declining:     method.declining(),
		dueDates:      dates,
		fees:          p.Fees,
	}), nil
}

// buildSchedule folds over the installment index. Each installment is produced once from the
// previous state; the final one absorbs whatever rounding left on the balance.
func (c *Calculator) buildSchedule(plan schedulePlan) []Installment {
	n := len(plan.dueDates)
	schedule := make([]Installment, 0, n)
	state := scheduleState{balance: plan.principal}
	for i := 1; i <= n; i++ {
		var in Installment
		in, state = c.nextInstallment(plan, state, i)
		schedule = append(schedule, in)
	}
	return schedule
}

func (c *Calculator) nextInstallment(plan schedulePlan, s scheduleState, number int) (Installment, scheduleState) {
	n := int64(len(plan.dueDates))
	last := number == len(plan.dueDates)

	var principal, interest decimal.Decimal
	if plan.declining {
		interest = c.round(s.balance.Mul(plan.periodicRate))
		principal = plan.installment.Sub(interest)
	} else {
		principal = c.round(plan.principal.Div(decimal.NewFromInt(n)))
		interest = c.round(plan.totalInterest.Div(decimal.NewFromInt(n)))
		if left := plan.totalInterest.Sub(s.cumInterest); last || interest.GreaterThan(left) {
			interest = left
		}
	}
	if interest.IsNegative() {
		interest = decimal.Zero
	}
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if last || principal.GreaterThan(s.balance) {
		principal = s.balance
	}

	fees := decimal.Zero
	for _, f := range plan.fees {
		fees = fees.Add(f.Amount(principal))
	}
	fees = c.round(fees)

	balance := s.balance.Sub(principal)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	next := scheduleState{
		balance:      balance,
		cumPrincipal: s.cumPrincipal.Add(principal),
		cumInterest:  s.cumInterest.Add(interest),
	}
	return Installment{
		Number:              number,
		DueDate:             plan.dueDates[number-1],
		PrincipalDue:        principal,
		InterestDue:         interest,
		FeesDue:             fees,
		PenaltyDue:          decimal.Zero,
		TotalDue:            principal.Add(interest).Add(fees),
		RemainingBalance:    balance,
		CumulativePrincipal: next.cumPrincipal,
		CumulativeInterest:  next.cumInterest,
	}, next
}

// ImpliedPeriodicRate solves the annuity formula for the periodic rate that turns principal into
// n payments of installment, by bisection.
func ImpliedPeriodicRate(principal, installment float64, n int) (float64, error) {
	if principal <= 0 || n < 1 {
		return 0, ErrInvalidArgument
	}
	if installment*float64(n) <= principal {
		return 0, nil
	}
	pay := func(r float64) float64 {
		p, err := AnnuityPayment(principal, n, r)
		if err != nil {
			return math.Inf(1)
		}
		return p
	}
	lo, hi := 0.0, 1.0
	for pay(hi) < installment {
		hi *= 2
		if hi > 1e6 {
			return 0, fmt.Errorf("%w: installment %.2f implies no finite rate", ErrArithmeticOverflow, installment)
		}
	}
	for i := 0; i < 200 && hi-lo > 1e-15; i++ {
		mid := (lo + hi) / 2
		if pay(mid) < installment {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
