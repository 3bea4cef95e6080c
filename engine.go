package amortization

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Hook observes calculations. BeforeCalculate may reject a request by returning an error.
type Hook interface {
	Name() string
	BeforeCalculate(ctx *CalcContext) error
	AfterCalculate(ctx *CalcContext) error
}

type Hooks []Hook

// CalcContext is passed along the hook chain for one calculation.
type CalcContext struct {
	Context context.Context
	Request LoanRequest
	Result  *CalculationResult
	Err     error
	Params  map[string]any
}

// Calculator is the entry point of the engine. It holds no per-call state and is safe for concurrent use once built.
type Calculator struct {
	cfg   Config
	hooks Hooks
}

func NewCalculator(c Config, hooks ...Hook) *Calculator {
	return &Calculator{cfg: c.withDefaults(), hooks: append(Hooks(nil), hooks...)}
}

var defaultCalculator = NewCalculator(Config{})

// CalculateLoan runs a calculation with the default configuration.
func CalculateLoan(req LoanRequest) (CalculationResult, error) {
	return defaultCalculator.Calculate(context.Background(), req)
}

// GenerateSchedule builds a schedule with the default configuration.
func GenerateSchedule(p ScheduleParams) ([]Installment, error) {
	return defaultCalculator.GenerateSchedule(p)
}

func (c *Calculator) round(d decimal.Decimal) decimal.Decimal {
	return c.cfg.RoundStrategy(d)
}

func (c *Calculator) roundFloat(f float64) decimal.Decimal {
	return c.round(decimal.NewFromFloat(f))
}

// minPrincipal is one cent; anything smaller rounds to an empty loan.
var minPrincipal = decimal.New(1, -2)

// Validate reports every problem of req at once.
func Validate(req LoanRequest) error {
	var errs ValidationErrors
	if req.Principal.LessThan(minPrincipal) {
		errs.add("principal", "must be at least %s", minPrincipal)
	}
	if req.ReleaseDate.IsZero() {
		errs.add("release_date", "is required")
	}
	if !req.InterestMethod.Valid() {
		errs.add("interest_method", "unknown interest method %q", req.InterestMethod)
	}
	if req.InterestType != "" && !req.InterestType.Valid() {
		errs.add("interest_type", "unknown interest type %q", req.InterestType)
	}
	if req.Rate.IsNegative() {
		errs.add("rate", "must not be negative")
	}
	if !req.RatePeriod.Valid() {
		errs.add("rate_period", "unknown rate period %q", req.RatePeriod)
	}
	if !req.Duration.IsPositive() {
		errs.add("duration", "must be greater than 0")
	}
	if !req.DurationUnit.Valid() {
		errs.add("duration_unit", "unknown duration unit %q", req.DurationUnit)
	}
	if !req.RepaymentCycle.Valid() {
		errs.add("repayment_cycle", "unknown repayment cycle %q", req.RepaymentCycle)
	}
	if req.NumberOfInstallments < 1 {
		errs.add("number_of_installments", "must be at least 1")
	}
	if req.RepaymentCycle == CycleBullet && req.NumberOfInstallments > 1 {
		errs.add("number_of_installments", "bullet loans have exactly one installment")
	}
	if !req.RollConvention.Valid() {
		errs.add("roll_convention", "unknown roll convention %q", req.RollConvention)
	}
	for i, f := range req.Fees {
		if f.Rate.IsNegative() || f.Fix.IsNegative() {
			errs.add(fmt.Sprintf("fees[%d]", i), "must not be negative")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Calculate turns a loan request into its aggregate figures and installment schedule.
// Invalid input fails before any installment is produced.
func (c *Calculator) Calculate(ctx context.Context, req LoanRequest) (CalculationResult, error) {
	cc := &CalcContext{Context: ctx, Request: req, Params: map[string]any{}}
	for _, h := range c.hooks {
		if err := h.BeforeCalculate(cc); err != nil {
			return CalculationResult{}, fmt.Errorf("%s: %w", h.Name(), err)
		}
	}
	res, err := c.calculate(req)
	if err == nil {
		cc.Result = &res
	}
	cc.Err = err
	for i := len(c.hooks) - 1; i >= 0; i-- {
		if herr := c.hooks[i].AfterCalculate(cc); herr != nil && err == nil {
			return CalculationResult{}, fmt.Errorf("%s: %w", c.hooks[i].Name(), herr)
		}
	}
	return res, err
}

func (c *Calculator) calculate(req LoanRequest) (CalculationResult, error) {
	if err := Validate(req); err != nil {
		return CalculationResult{}, err
	}
	duration := req.Duration.InexactFloat64()
	years, err := ToYears(duration, req.DurationUnit)
	if err != nil {
		return CalculationResult{}, err
	}
	days, err := ToDays(duration, req.DurationUnit)
	if err != nil {
		return CalculationResult{}, err
	}
	principal, rate := req.Principal.InexactFloat64(), req.Rate.InexactFloat64()
	if err := checkFinite(principal, rate, years, days); err != nil {
		return CalculationResult{}, err
	}
	method := methods[req.InterestMethod]
	a, err := method.accrue(accrualInput{
		principal:    principal,
		rate:         rate,
		ratePeriod:   req.RatePeriod,
		years:        years,
		cycle:        req.RepaymentCycle,
		installments: req.NumberOfInstallments,
	})
	if err != nil {
		return CalculationResult{}, err
	}
	if err := a.finite(); err != nil {
		return CalculationResult{}, err
	}

	first, err := NextDueDate(DateOf(req.ReleaseDate), req.RepaymentCycle)
	if err != nil {
		return CalculationResult{}, err
	}
	dates, err := DueDates(first, req.NumberOfInstallments, req.RepaymentCycle, req.RollConvention, c.cfg.Holiday.IsHoliday)
	if err != nil {
		return CalculationResult{}, err
	}

	res := CalculationResult{
		TotalInterest:       c.roundFloat(a.totalInterest),
		TotalAmount:         c.roundFloat(a.totalAmount),
		InstallmentAmount:   c.roundFloat(a.installmentAmount),
		EffectiveAnnualRate: decimal.NewFromFloat(a.effectiveAnnualRate).Round(6),
		PeriodicRate:        decimal.NewFromFloat(a.periodicRate).Round(8),
		TermDays:            decimal.NewFromFloat(days).Round(2),
		FirstPaymentDate:    dates[0],
		MaturityDate:        dates[len(dates)-1],
	}
	res.Schedule = c.buildSchedule(schedulePlan{
		principal:     c.round(req.Principal),
		installment:   res.InstallmentAmount,
		totalInterest: res.TotalInterest,
		periodicRate:  decimal.NewFromFloat(a.periodicRate),
		declining:     method.declining(),
		dueDates:      dates,
		fees:          req.Fees,
	})
	res.Summary = Summarize(res.Schedule)
	return res, nil
}
