package amortization

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee is a service or admin charge collected with every installment.
type Fee struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"` // share of the installment principal
	Fix  decimal.Decimal `json:"fix"`  // flat amount
}

// Amount is the fee charged on an installment repaying principal p.
func (f Fee) Amount(p decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	if !f.Fix.IsZero() {
		total = f.Fix
	}
	return total.Add(p.Mul(f.Rate))
}

// LoanRequest carries the primary rate and duration of a loan; any other period-specific
// figures are resolved by the caller before the request is built.
type LoanRequest struct {
	Principal            decimal.Decimal `json:"principal"`
	ReleaseDate          time.Time       `json:"release_date"`
	InterestMethod       InterestMethod  `json:"interest_method"`
	InterestType         InterestType    `json:"interest_type"`
	Rate                 decimal.Decimal `json:"rate"`
	RatePeriod           RatePeriod      `json:"rate_period"`
	Duration             decimal.Decimal `json:"duration"`
	DurationUnit         DurationUnit    `json:"duration_unit"`
	RepaymentCycle       RepaymentCycle  `json:"repayment_cycle"`
	NumberOfInstallments int             `json:"number_of_installments"`
	RollConvention       RollConvention  `json:"roll_convention,omitempty"`
	Fees                 []Fee           `json:"fees,omitempty"`
}

// Installment is one row of a repayment schedule.
type Installment struct {
	Number              int             `json:"number"` // 1-based
	DueDate             time.Time       `json:"due_date"`
	PrincipalDue        decimal.Decimal `json:"principal_due"`
	InterestDue         decimal.Decimal `json:"interest_due"`
	FeesDue             decimal.Decimal `json:"fees_due"`
	PenaltyDue          decimal.Decimal `json:"penalty_due"`
	TotalDue            decimal.Decimal `json:"total_due"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
}

// Summary aggregates a schedule.
type Summary struct {
	NumberOfInstallments     int             `json:"number_of_installments"`
	TotalPrincipal           decimal.Decimal `json:"total_principal"`
	TotalInterest            decimal.Decimal `json:"total_interest"`
	TotalFees                decimal.Decimal `json:"total_fees"`
	TotalPayable             decimal.Decimal `json:"total_payable"`
	AverageInstallment       decimal.Decimal `json:"average_installment"`
	LargestInstallment       decimal.Decimal `json:"largest_installment"`
	SmallestInstallment      decimal.Decimal `json:"smallest_installment"`
	InterestToPrincipalRatio decimal.Decimal `json:"interest_to_principal_ratio"`
}

// CalculationResult is built once per calculation and never mutated afterwards.
type CalculationResult struct {
	TotalInterest       decimal.Decimal `json:"total_interest"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	InstallmentAmount   decimal.Decimal `json:"installment_amount"`
	EffectiveAnnualRate decimal.Decimal `json:"effective_annual_rate"`
	PeriodicRate        decimal.Decimal `json:"periodic_rate"`
	TermDays            decimal.Decimal `json:"term_days"`
	FirstPaymentDate    time.Time       `json:"first_payment_date"`
	MaturityDate        time.Time       `json:"maturity_date"`
	Schedule            []Installment   `json:"schedule"`
	Summary             Summary         `json:"summary"`
}

// Summarize derives the aggregate statistics of a schedule.
func Summarize(schedule []Installment) Summary {
	s := Summary{NumberOfInstallments: len(schedule)}
	for i, in := range schedule {
		s.TotalPrincipal = s.TotalPrincipal.Add(in.PrincipalDue)
		s.TotalInterest = s.TotalInterest.Add(in.InterestDue)
		s.TotalFees = s.TotalFees.Add(in.FeesDue)
		s.TotalPayable = s.TotalPayable.Add(in.TotalDue)
		if i == 0 || in.TotalDue.GreaterThan(s.LargestInstallment) {
			s.LargestInstallment = in.TotalDue
		}
		if i == 0 || in.TotalDue.LessThan(s.SmallestInstallment) {
			s.SmallestInstallment = in.TotalDue
		}
	}
	if len(schedule) > 0 {
		s.AverageInstallment = Money(s.TotalPayable.Div(decimal.NewFromInt(int64(len(schedule)))))
	}
	if s.TotalPrincipal.IsPositive() {
		s.InterestToPrincipalRatio = s.TotalInterest.Div(s.TotalPrincipal).Round(4)
	}
	return s
}
