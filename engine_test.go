package amortization

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CollectsEveryField(t *testing.T) {
	err := Validate(LoanRequest{
		Principal:            dec("0"),
		InterestMethod:       "balloon",
		InterestType:         "floating",
		Rate:                 dec("-0.1"),
		RatePeriod:           "hourly",
		Duration:             dec("0"),
		DurationUnit:         "fortnights",
		RepaymentCycle:       "hourly",
		NumberOfInstallments: 0,
		RollConvention:       "NEAREST",
		Fees:                 []Fee{{Name: "bad", Fix: dec("-1")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, f := range verrs {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{
		"principal", "release_date", "interest_method", "interest_type", "rate", "rate_period",
		"duration", "duration_unit", "repayment_cycle", "number_of_installments", "roll_convention",
		"fees[0]",
	}, fields)
}

func TestValidate_BulletNeedsOneInstallment(t *testing.T) {
	req := bulletPerLoanRequest()
	req.NumberOfInstallments = 2

	_, err := CalculateLoan(req)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "number_of_installments", verrs[0].Field)
}

func TestValidate_AcceptsEveryInterestType(t *testing.T) {
	for _, it := range []InterestType{"", InterestFixed, InterestVariable, InterestStepped} {
		req := reducingMonthlyRequest()
		req.InterestType = it
		assert.NoError(t, Validate(req), it)
	}
}

func TestCalculate_IsDeterministic(t *testing.T) {
	first, err := CalculateLoan(reducingMonthlyRequest())
	require.NoError(t, err)
	second, err := CalculateLoan(reducingMonthlyRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

type recordingHook struct {
	name string
	log  *[]string
	fail error
	saw  *CalcContext
}

func (h recordingHook) Name() string { return h.name }

func (h recordingHook) BeforeCalculate(*CalcContext) error {
	*h.log = append(*h.log, "before "+h.name)
	return h.fail
}

func (h recordingHook) AfterCalculate(ctx *CalcContext) error {
	*h.log = append(*h.log, "after "+h.name)
	if h.saw != nil {
		*h.saw = *ctx
	}
	return nil
}

func TestCalculator_HookOrder(t *testing.T) {
	var log []string
	var seen CalcContext
	calc := NewCalculator(Config{},
		recordingHook{name: "a", log: &log, saw: &seen},
		recordingHook{name: "b", log: &log},
	)

	res, err := calc.Calculate(context.Background(), flatWeeklyRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"before a", "before b", "after b", "after a"}, log)
	require.NotNil(t, seen.Result)
	assert.True(t, seen.Result.TotalInterest.Equal(res.TotalInterest))
	assert.NoError(t, seen.Err)
}

func TestCalculator_HookSeesFailure(t *testing.T) {
	var log []string
	var seen CalcContext
	calc := NewCalculator(Config{}, recordingHook{name: "a", log: &log, saw: &seen})

	req := flatWeeklyRequest()
	req.Principal = dec("-1")
	_, err := calc.Calculate(context.Background(), req)

	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, seen.Result)
	assert.ErrorIs(t, seen.Err, ErrInvalidArgument)
}

func TestCalculator_HookRejects(t *testing.T) {
	var log []string
	errQuota := errors.New("quota exhausted")
	calc := NewCalculator(Config{},
		recordingHook{name: "quota", log: &log, fail: errQuota},
		recordingHook{name: "never", log: &log},
	)

	_, err := calc.Calculate(context.Background(), flatWeeklyRequest())

	assert.ErrorIs(t, err, errQuota)
	assert.Equal(t, []string{"before quota"}, log)
}

func TestCalculator_BankRounding(t *testing.T) {
	calc := NewCalculator(Config{RoundStrategy: BankRound})
	req := flatWeeklyRequest()
	req.Principal = dec("10000.25")
	req.Rate = dec("0")
	req.NumberOfInstallments = 2
	req.RepaymentCycle = CycleBiWeekly

	res, err := calc.Calculate(context.Background(), req)
	require.NoError(t, err)

	// 5000.125 rounds to even.
	assert.Equal(t, "5000.12", res.InstallmentAmount.StringFixed(2))
	assert.Equal(t, "5000.13", res.Schedule[1].PrincipalDue.StringFixed(2))
}

func TestValidate_RejectsSubCentPrincipal(t *testing.T) {
	req := flatWeeklyRequest()
	req.Principal = dec("0.001")

	_, err := CalculateLoan(req)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "principal", verrs[0].Field)

	req.Principal = dec("0.01")
	assert.NoError(t, Validate(req))
}
