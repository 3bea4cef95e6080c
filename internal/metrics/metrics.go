package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskmanagement123/amortization"
)

const startedKey = "metrics.started"

// Collector counts calculations and is registered on the calculator as a hook.
type Collector struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	installments prometheus.Histogram
	cacheHits    *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "amortization_calculations_total",
			Help: "Loan calculations by interest method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amortization_calculation_seconds",
			Help:    "Time spent computing a loan calculation.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"method"}),
		installments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "amortization_schedule_installments",
			Help:    "Installments per generated schedule.",
			Buckets: []float64{1, 4, 12, 26, 52, 104, 365, 1000},
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "amortization_cache_lookups_total",
			Help: "Result cache lookups by result.",
		}, []string{"result"}),
	}
	c.registry.MustRegister(c.calculations, c.duration, c.installments, c.cacheHits)
	return c
}

func (c *Collector) Name() string { return "metrics" }

func (c *Collector) BeforeCalculate(ctx *amortization.CalcContext) error {
	ctx.Params[startedKey] = time.Now()
	return nil
}

func (c *Collector) AfterCalculate(ctx *amortization.CalcContext) error {
	method := string(ctx.Request.InterestMethod)
	if !ctx.Request.InterestMethod.Valid() {
		method = "unknown"
	}
	if started, ok := ctx.Params[startedKey].(time.Time); ok {
		c.duration.WithLabelValues(method).Observe(time.Since(started).Seconds())
	}
	if ctx.Err != nil {
		c.calculations.WithLabelValues(method, "error").Inc()
		return nil
	}
	c.calculations.WithLabelValues(method, "ok").Inc()
	c.installments.Observe(float64(len(ctx.Result.Schedule)))
	return nil
}

// CacheLookup records a result cache hit or miss.
func (c *Collector) CacheLookup(hit bool) {
	if hit {
		c.cacheHits.WithLabelValues("hit").Inc()
		return
	}
	c.cacheHits.WithLabelValues("miss").Inc()
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
