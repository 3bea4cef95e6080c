package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertScheduleInvariants(t *testing.T, req LoanRequest, res CalculationResult) {
	t.Helper()
	require.Len(t, res.Schedule, req.NumberOfInstallments)

	principal := decimal.Zero
	interest := decimal.Zero
	for i, in := range res.Schedule {
		assert.Equal(t, i+1, in.Number)
		if i > 0 {
			assert.True(t, in.DueDate.After(res.Schedule[i-1].DueDate), "due dates must increase at %d", i+1)
		}
		assert.False(t, in.RemainingBalance.IsNegative())
		assert.True(t, in.TotalDue.Equal(in.PrincipalDue.Add(in.InterestDue).Add(in.FeesDue)))
		principal = principal.Add(in.PrincipalDue)
		interest = interest.Add(in.InterestDue)
		assert.True(t, in.CumulativePrincipal.Equal(principal))
		assert.True(t, in.CumulativeInterest.Equal(interest))
	}
	last := res.Schedule[len(res.Schedule)-1]
	assert.True(t, last.RemainingBalance.IsZero(), "final balance %s", last.RemainingBalance)
	assert.True(t, principal.Equal(req.Principal.Round(2)), "principal column sums to %s", principal)
	assert.Equal(t, res.FirstPaymentDate, res.Schedule[0].DueDate)
	assert.Equal(t, res.MaturityDate, last.DueDate)
}

func TestSchedule_Invariants(t *testing.T) {
	today := date(2026, time.October, 17)
	cases := map[string]LoanRequest{
		"reducing monthly": reducingMonthlyRequest(),
		"flat weekly":      flatWeeklyRequest(),
		"bullet simple":    bulletPerLoanRequest(),
	}
	for _, p := range Presets(today) {
		cases["preset "+p.ID] = p.Request
	}
	daily := flatWeeklyRequest()
	daily.RepaymentCycle = CycleDaily
	daily.NumberOfInstallments = 30
	daily.Principal = dec("1000.01")
	cases["flat daily odd cents"] = daily

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := CalculateLoan(req)
			require.NoError(t, err)
			assertScheduleInvariants(t, req, res)
		})
	}
}

func TestSchedule_EvenSplitInterestReconciles(t *testing.T) {
	req := flatWeeklyRequest()
	req.Principal = dec("10000.01")
	req.NumberOfInstallments = 7

	res, err := CalculateLoan(req)
	require.NoError(t, err)

	assert.True(t, res.Summary.TotalInterest.Equal(res.TotalInterest))
	assert.True(t, res.Summary.TotalPrincipal.Equal(req.Principal))
}

func TestSchedule_ReducingBalanceInterestMatchesTotal(t *testing.T) {
	res, err := CalculateLoan(reducingMonthlyRequest())
	require.NoError(t, err)

	assert.Equal(t, "20554.50", res.Summary.TotalInterest.StringFixed(2))
	assert.Equal(t, "100000.00", res.Summary.TotalPrincipal.StringFixed(2))
}

func TestSchedule_Fees(t *testing.T) {
	req := flatWeeklyRequest()
	req.Fees = []Fee{
		{Name: "service", Rate: dec("0.01")},
		{Name: "sms", Fix: dec("5")},
	}

	res, err := CalculateLoan(req)
	require.NoError(t, err)

	first := res.Schedule[0]
	// 833.33 * 1% + 5
	assert.Equal(t, "13.33", first.FeesDue.StringFixed(2))
	assert.Equal(t, "1046.66", first.TotalDue.StringFixed(2))
	assert.True(t, first.PenaltyDue.IsZero())
	assert.Equal(t, "159.96", res.Summary.TotalFees.StringFixed(2))
	assert.Equal(t, "12400.00", res.TotalAmount.StringFixed(2), "fees stay out of the loan total")
}

func TestGenerateSchedule_Flat(t *testing.T) {
	schedule, err := GenerateSchedule(ScheduleParams{
		Principal:            dec("10000"),
		InstallmentAmount:    dec("1033.33"),
		TotalInterest:        dec("2400"),
		NumberOfInstallments: 12,
		FirstPaymentDate:     date(2026, time.January, 8),
		RepaymentCycle:       CycleWeekly,
		InterestMethod:       MethodFlat,
	})
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	s := Summarize(schedule)
	assert.Equal(t, "10000.00", s.TotalPrincipal.StringFixed(2))
	assert.Equal(t, "2400.00", s.TotalInterest.StringFixed(2))
	assert.Equal(t, "12400.00", s.TotalPayable.StringFixed(2))
	assert.Equal(t, "1033.37", s.LargestInstallment.StringFixed(2))
	assert.Equal(t, "1033.33", s.SmallestInstallment.StringFixed(2))
	assert.Equal(t, "0.24", s.InterestToPrincipalRatio.String())
	assert.Equal(t, date(2026, time.March, 26), schedule[11].DueDate)
}

func TestGenerateSchedule_ReducingImpliesRate(t *testing.T) {
	schedule, err := GenerateSchedule(ScheduleParams{
		Principal:            dec("100000"),
		InstallmentAmount:    dec("10046.21"),
		TotalInterest:        dec("20554.52"),
		NumberOfInstallments: 12,
		FirstPaymentDate:     date(2026, time.February, 15),
		RepaymentCycle:       CycleMonthly,
		InterestMethod:       MethodReducingBalance,
	})
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	assert.Equal(t, "3000.00", schedule[0].InterestDue.StringFixed(2))
	assert.True(t, schedule[11].RemainingBalance.IsZero())
	assert.InDelta(t, 20554.5, Summarize(schedule).TotalInterest.InexactFloat64(), 0.1)
}

func TestGenerateSchedule_Validation(t *testing.T) {
	_, err := GenerateSchedule(ScheduleParams{
		Principal:            dec("-1"),
		NumberOfInstallments: 0,
		RepaymentCycle:       "hourly",
		InterestMethod:       MethodFlat,
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, f := range verrs {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"principal", "number_of_installments", "repayment_cycle", "first_payment_date"}, fields)
}

func TestImpliedPeriodicRate(t *testing.T) {
	pmt, err := AnnuityPayment(100000, 12, 0.03)
	require.NoError(t, err)

	r, err := ImpliedPeriodicRate(100000, pmt, 12)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, r, 1e-9)

	r, err = ImpliedPeriodicRate(1200, 100, 12)
	require.NoError(t, err)
	assert.Zero(t, r)

	_, err = ImpliedPeriodicRate(0, 100, 12)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGenerateSchedule_InterestNeverOvershootsTotal(t *testing.T) {
	// 1.00 / 200 rounds up to a cent, so the column would reach 1.00 after 100 installments.
	schedule, err := GenerateSchedule(ScheduleParams{
		Principal:            dec("1000"),
		InstallmentAmount:    dec("5.01"),
		TotalInterest:        dec("1.00"),
		NumberOfInstallments: 200,
		FirstPaymentDate:     date(2026, time.January, 1),
		RepaymentCycle:       CycleDaily,
		InterestMethod:       MethodFlat,
	})
	require.NoError(t, err)
	require.Len(t, schedule, 200)

	for _, in := range schedule {
		assert.False(t, in.InterestDue.IsNegative())
		assert.False(t, in.CumulativeInterest.GreaterThan(dec("1.00")), "installment %d", in.Number)
	}
	s := Summarize(schedule)
	assert.Equal(t, "1.00", s.TotalInterest.StringFixed(2))
	assert.Equal(t, "1000.00", s.TotalPrincipal.StringFixed(2))
	assert.True(t, schedule[199].InterestDue.IsZero())
}

func TestGenerateSchedule_RejectsSubCentPrincipal(t *testing.T) {
	_, err := GenerateSchedule(ScheduleParams{
		Principal:            dec("0.001"),
		NumberOfInstallments: 1,
		FirstPaymentDate:     date(2026, time.January, 1),
		RepaymentCycle:       CycleMonthly,
		InterestMethod:       MethodFlat,
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "principal", verrs[0].Field)
}
