package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/riskmanagement123/amortization"
	"github.com/riskmanagement123/amortization/internal/cache"
	"github.com/riskmanagement123/amortization/internal/config"
	"github.com/riskmanagement123/amortization/internal/httpapi"
	"github.com/riskmanagement123/amortization/internal/logging"
	"github.com/riskmanagement123/amortization/internal/metrics"
	"github.com/riskmanagement123/amortization/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	holidays, err := amortization.ParseHolidays(cfg.Holidays)
	if err != nil {
		logger.Error("invalid HOLIDAYS", "error", err)
		os.Exit(1)
	}

	var hooks []amortization.Hook
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.NewCollector()
		hooks = append(hooks, collector)
	}
	calc := amortization.NewCalculator(amortization.Config{Holiday: holidays}, hooks...)

	var resultCache cache.Cache
	switch cfg.Cache.Backend {
	case "memory":
		resultCache = cache.NewMemory(cfg.Cache.TTL)
	case "redis":
		rc := cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.TTL)
		defer rc.Close()
		resultCache = rc
	default:
		resultCache = cache.Noop{}
	}

	opts := service.Options{
		Cache:      resultCache,
		CacheScope: cache.Scope(cfg.Holidays...),
		Limits:     cfg.Limits,
		Logger:     logger,
	}
	var metricsRoute fasthttp.RequestHandler
	if collector != nil {
		opts.CacheObserver = collector.CacheLookup
		metricsRoute = httpapi.MetricsHandler(collector.Handler())
	}
	svc := service.NewCalculatorService(calc, opts)
	handler := httpapi.NewHandler(svc, logger, metricsRoute)

	limiter := httpapi.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	server := httpapi.NewServer(cfg.ServiceName, handler, limiter)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "cache", cfg.Cache.Backend, "metrics", cfg.MetricsEnabled)
		if err := server.ListenAndServe(cfg.HTTPAddr); err != nil {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
		return
	case <-quit:
		logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}

	logger.Info("server exited")
}
