package httpapi

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskmanagement123/amortization"
)

type loanRequestDTO struct {
	Principal            decimal.Decimal    `json:"principal"`
	ReleaseDate          string             `json:"release_date"`
	InterestMethod       string             `json:"interest_method"`
	InterestType         string             `json:"interest_type"`
	Rate                 decimal.Decimal    `json:"rate"`
	RatePeriod           string             `json:"rate_period"`
	Duration             decimal.Decimal    `json:"duration"`
	DurationUnit         string             `json:"duration_unit"`
	RepaymentCycle       string             `json:"repayment_cycle"`
	NumberOfInstallments int                `json:"number_of_installments"`
	RollConvention       string             `json:"roll_convention"`
	Fees                 []amortization.Fee `json:"fees"`
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, amortization.ValidationErrors{{
			Field:   field,
			Message: fmt.Sprintf("want a YYYY-MM-DD date, got %q", s),
		}}
	}
	return t, nil
}

func (d loanRequestDTO) toRequest() (amortization.LoanRequest, error) {
	release, err := parseDate("release_date", d.ReleaseDate)
	if err != nil {
		return amortization.LoanRequest{}, err
	}
	return amortization.LoanRequest{
		Principal:            d.Principal,
		ReleaseDate:          release,
		InterestMethod:       amortization.InterestMethod(d.InterestMethod),
		InterestType:         amortization.InterestType(d.InterestType),
		Rate:                 d.Rate,
		RatePeriod:           amortization.RatePeriod(d.RatePeriod),
		Duration:             d.Duration,
		DurationUnit:         amortization.DurationUnit(d.DurationUnit),
		RepaymentCycle:       amortization.RepaymentCycle(d.RepaymentCycle),
		NumberOfInstallments: d.NumberOfInstallments,
		RollConvention:       amortization.RollConvention(d.RollConvention),
		Fees:                 d.Fees,
	}, nil
}

func fromRequest(r amortization.LoanRequest) loanRequestDTO {
	return loanRequestDTO{
		Principal:            r.Principal,
		ReleaseDate:          r.ReleaseDate.Format(time.DateOnly),
		InterestMethod:       string(r.InterestMethod),
		InterestType:         string(r.InterestType),
		Rate:                 r.Rate,
		RatePeriod:           string(r.RatePeriod),
		Duration:             r.Duration,
		DurationUnit:         string(r.DurationUnit),
		RepaymentCycle:       string(r.RepaymentCycle),
		NumberOfInstallments: r.NumberOfInstallments,
		RollConvention:       string(r.RollConvention),
		Fees:                 r.Fees,
	}
}

type scheduleRequestDTO struct {
	Principal            decimal.Decimal    `json:"principal"`
	InstallmentAmount    decimal.Decimal    `json:"installment_amount"`
	TotalInterest        decimal.Decimal    `json:"total_interest"`
	NumberOfInstallments int                `json:"number_of_installments"`
	FirstPaymentDate     string             `json:"first_payment_date"`
	RepaymentCycle       string             `json:"repayment_cycle"`
	InterestMethod       string             `json:"interest_method"`
	PeriodicRate         decimal.Decimal    `json:"periodic_rate"`
	RollConvention       string             `json:"roll_convention"`
	Fees                 []amortization.Fee `json:"fees"`
}

func (d scheduleRequestDTO) toParams() (amortization.ScheduleParams, error) {
	first, err := parseDate("first_payment_date", d.FirstPaymentDate)
	if err != nil {
		return amortization.ScheduleParams{}, err
	}
	return amortization.ScheduleParams{
		Principal:            d.Principal,
		InstallmentAmount:    d.InstallmentAmount,
		TotalInterest:        d.TotalInterest,
		NumberOfInstallments: d.NumberOfInstallments,
		FirstPaymentDate:     first,
		RepaymentCycle:       amortization.RepaymentCycle(d.RepaymentCycle),
		InterestMethod:       amortization.InterestMethod(d.InterestMethod),
		PeriodicRate:         d.PeriodicRate,
		RollConvention:       amortization.RollConvention(d.RollConvention),
		Fees:                 d.Fees,
	}, nil
}

type effectiveRatesRequestDTO struct {
	NominalRate decimal.Decimal `json:"nominal_rate"`
	RatePeriod  string          `json:"rate_period"`
}

type accrualRequestDTO struct {
	Balance      decimal.Decimal `json:"balance"`
	AnnualRate   decimal.Decimal `json:"annual_rate"`
	Start        string          `json:"start"`
	End          string          `json:"end"`
	DayCountConv string          `json:"day_count_convention"`
}

type accrualResponseDTO struct {
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	Days            int             `json:"days"`
}

type installmentDTO struct {
	Number              int             `json:"number"`
	DueDate             string          `json:"due_date"`
	PrincipalDue        decimal.Decimal `json:"principal_due"`
	InterestDue         decimal.Decimal `json:"interest_due"`
	FeesDue             decimal.Decimal `json:"fees_due"`
	PenaltyDue          decimal.Decimal `json:"penalty_due"`
	TotalDue            decimal.Decimal `json:"total_due"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
}

func fromSchedule(schedule []amortization.Installment) []installmentDTO {
	out := make([]installmentDTO, 0, len(schedule))
	for _, in := range schedule {
		out = append(out, installmentDTO{
			Number:              in.Number,
			DueDate:             in.DueDate.Format(time.DateOnly),
			PrincipalDue:        in.PrincipalDue,
			InterestDue:         in.InterestDue,
			FeesDue:             in.FeesDue,
			PenaltyDue:          in.PenaltyDue,
			TotalDue:            in.TotalDue,
			RemainingBalance:    in.RemainingBalance,
			CumulativePrincipal: in.CumulativePrincipal,
			CumulativeInterest:  in.CumulativeInterest,
		})
	}
	return out
}

type calculationResponseDTO struct {
	TotalInterest       decimal.Decimal      `json:"total_interest"`
	TotalAmount         decimal.Decimal      `json:"total_amount"`
	InstallmentAmount   decimal.Decimal      `json:"installment_amount"`
	EffectiveAnnualRate decimal.Decimal      `json:"effective_annual_rate"`
	PeriodicRate        decimal.Decimal      `json:"periodic_rate"`
	TermDays            decimal.Decimal      `json:"term_days"`
	FirstPaymentDate    string               `json:"first_payment_date"`
	MaturityDate        string               `json:"maturity_date"`
	Schedule            []installmentDTO     `json:"schedule"`
	Summary             amortization.Summary `json:"summary"`
}

func fromResult(r amortization.CalculationResult) calculationResponseDTO {
	return calculationResponseDTO{
		TotalInterest:       r.TotalInterest,
		TotalAmount:         r.TotalAmount,
		InstallmentAmount:   r.InstallmentAmount,
		EffectiveAnnualRate: r.EffectiveAnnualRate,
		PeriodicRate:        r.PeriodicRate,
		TermDays:            r.TermDays,
		FirstPaymentDate:    r.FirstPaymentDate.Format(time.DateOnly),
		MaturityDate:        r.MaturityDate.Format(time.DateOnly),
		Schedule:            fromSchedule(r.Schedule),
		Summary:             r.Summary,
	}
}

type presetDTO struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Request     loanRequestDTO          `json:"request"`
	Result      *calculationResponseDTO `json:"result,omitempty"`
}

func fromPreset(p amortization.Preset) presetDTO {
	return presetDTO{ID: p.ID, Name: p.Name, Description: p.Description, Request: fromRequest(p.Request)}
}

type errorResponseDTO struct {
	Status  int                       `json:"status"`
	Message string                    `json:"message"`
	Error   string                    `json:"error,omitempty"`
	Fields  []amortization.FieldError `json:"fields,omitempty"`
}
