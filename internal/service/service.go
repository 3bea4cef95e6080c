package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riskmanagement123/amortization"
	"github.com/riskmanagement123/amortization/internal/cache"
	"github.com/riskmanagement123/amortization/internal/config"
)

type requestIDKey struct{}

// WithRequestID tags ctx with a request id for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored in ctx, or a fresh one.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

type Options struct {
	Cache         cache.Cache
	CacheScope    string // separates results of calculators built with different settings
	Limits        config.LimitsConfig
	Clock         amortization.Clock
	Logger        *slog.Logger
	CacheObserver func(hit bool)
}

// CalculatorService puts operational limits, caching and logging around the calculator.
type CalculatorService struct {
	calc          *amortization.Calculator
	cache         cache.Cache
	cacheScope    string
	limits        config.LimitsConfig
	clock         amortization.Clock
	logger        *slog.Logger
	cacheObserver func(hit bool)
}

func NewCalculatorService(calc *amortization.Calculator, opts Options) *CalculatorService {
	s := &CalculatorService{
		calc:          calc,
		cache:         opts.Cache,
		cacheScope:    opts.CacheScope,
		limits:        opts.Limits,
		clock:         opts.Clock,
		logger:        opts.Logger,
		cacheObserver: opts.CacheObserver,
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.clock == nil {
		s.clock = amortization.SystemClock{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.cacheObserver == nil {
		s.cacheObserver = func(bool) {}
	}
	return s
}

func (s *CalculatorService) checkLimits(principal decimal.Decimal, installments int) error {
	var errs amortization.ValidationErrors
	if !s.limits.MaxPrincipal.IsZero() && principal.GreaterThan(s.limits.MaxPrincipal) {
		errs = append(errs, amortization.FieldError{
			Field:   "principal",
			Message: fmt.Sprintf("exceeds the maximum of %s", s.limits.MaxPrincipal),
		})
	}
	if s.limits.MaxInstallments > 0 && installments > s.limits.MaxInstallments {
		errs = append(errs, amortization.FieldError{
			Field:   "number_of_installments",
			Message: fmt.Sprintf("exceeds the maximum of %d", s.limits.MaxInstallments),
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Calculate validates, consults the cache and computes a loan. Cache failures are logged and
// never fail the calculation.
func (s *CalculatorService) Calculate(ctx context.Context, req amortization.LoanRequest) (amortization.CalculationResult, error) {
	log := s.logger.With("request_id", RequestID(ctx), "method", req.InterestMethod, "cycle", req.RepaymentCycle)
	if err := s.checkLimits(req.Principal, req.NumberOfInstallments); err != nil {
		log.Warn("calculation rejected", "error", err)
		return amortization.CalculationResult{}, err
	}

	key, err := cache.Key("calc:"+s.cacheScope, req)
	if err != nil {
		log.Warn("could not build cache key", "error", err)
	}
	if key != "" {
		if res, ok := s.lookup(ctx, log, key); ok {
			return res, nil
		}
	}

	start := time.Now()
	res, err := s.calc.Calculate(ctx, req)
	if err != nil {
		log.Warn("calculation failed", "error", err)
		return amortization.CalculationResult{}, err
	}
	log.Debug("calculation done",
		"installments", len(res.Schedule),
		"total_amount", res.TotalAmount.String(),
		"elapsed", time.Since(start))

	if key != "" {
		s.store(ctx, log, key, res)
	}
	return res, nil
}

func (s *CalculatorService) lookup(ctx context.Context, log *slog.Logger, key string) (amortization.CalculationResult, bool) {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("cache lookup failed", "error", err)
		return amortization.CalculationResult{}, false
	}
	s.cacheObserver(ok)
	if !ok {
		return amortization.CalculationResult{}, false
	}
	var res amortization.CalculationResult
	if err := json.Unmarshal(b, &res); err != nil {
		log.Warn("discarding unreadable cache entry", "error", err)
		return amortization.CalculationResult{}, false
	}
	log.Debug("calculation served from cache")
	return res, true
}

func (s *CalculatorService) store(ctx context.Context, log *slog.Logger, key string, res amortization.CalculationResult) {
	b, err := json.Marshal(res)
	if err != nil {
		log.Warn("could not encode result for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, b); err != nil {
		log.Warn("cache store failed", "error", err)
	}
}

func (s *CalculatorService) GenerateSchedule(ctx context.Context, p amortization.ScheduleParams) ([]amortization.Installment, error) {
	if err := s.checkLimits(p.Principal, p.NumberOfInstallments); err != nil {
		return nil, err
	}
	schedule, err := s.calc.GenerateSchedule(p)
	if err != nil {
		s.logger.Warn("schedule generation failed", "request_id", RequestID(ctx), "error", err)
		return nil, err
	}
	return schedule, nil
}

func (s *CalculatorService) EffectiveRates(nominal decimal.Decimal, period amortization.RatePeriod) (amortization.EffectiveRates, error) {
	return amortization.CalculateEffectiveRates(nominal, period)
}

func (s *CalculatorService) AccruedInterest(balance, annualRate decimal.Decimal, start, end time.Time, conv amortization.DayCountConv) (decimal.Decimal, error) {
	return s.calc.AccruedInterest(balance, annualRate, start, end, conv)
}

// Presets stamps the catalog with today's date from the service clock.
func (s *CalculatorService) Presets() []amortization.Preset {
	return amortization.Presets(s.clock.Now())
}

func (s *CalculatorService) Preset(id string) (amortization.Preset, error) {
	return amortization.PresetByID(id, s.clock.Now())
}

// CalculatePreset runs a preset released today.
func (s *CalculatorService) CalculatePreset(ctx context.Context, id string) (amortization.Preset, amortization.CalculationResult, error) {
	p, err := s.Preset(id)
	if err != nil {
		return amortization.Preset{}, amortization.CalculationResult{}, err
	}
	res, err := s.Calculate(ctx, p.Request)
	if err != nil {
		return amortization.Preset{}, amortization.CalculationResult{}, fmt.Errorf("preset %s: %w", id, err)
	}
	return p, res, nil
}

// IsInvalid reports whether err is the caller's fault.
func IsInvalid(err error) bool {
	return errors.Is(err, amortization.ErrInvalidArgument)
}
