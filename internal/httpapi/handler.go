package httpapi

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/riskmanagement123/amortization"
	"github.com/riskmanagement123/amortization/internal/service"
)

const presetsPath = "/v1/presets/"

type Handler struct {
	svc     *service.CalculatorService
	logger  *slog.Logger
	metrics fasthttp.RequestHandler
}

// NewHandler wires the API routes. metrics may be nil to leave /metrics unserved.
func NewHandler(svc *service.CalculatorService, logger *slog.Logger, metrics fasthttp.RequestHandler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger, metrics: metrics}
}

// Handle routes a request.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	id := string(ctx.Request.Header.Peek("X-Request-ID"))
	if id == "" {
		id = uuid.NewString()
	}
	ctx.Response.Header.Set("X-Request-ID", id)
	start := time.Now()

	path := string(ctx.Path())
	switch {
	case path == "/v1/loans/calculate":
		h.post(ctx, id, h.calculate)
	case path == "/v1/loans/schedule":
		h.post(ctx, id, h.schedule)
	case path == "/v1/rates/effective":
		h.post(ctx, id, h.effectiveRates)
	case path == "/v1/loans/accrual":
		h.post(ctx, id, h.accrual)
	case path == "/v1/presets":
		h.get(ctx, h.presets)
	case strings.HasPrefix(path, presetsPath):
		h.get(ctx, func(ctx *fasthttp.RequestCtx) { h.preset(ctx, id, strings.TrimPrefix(path, presetsPath)) })
	case path == "/healthz":
		h.get(ctx, func(ctx *fasthttp.RequestCtx) { writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"}) })
	case path == "/metrics" && h.metrics != nil:
		h.get(ctx, h.metrics)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found", nil)
	}

	h.logger.Debug("request",
		"request_id", id,
		"method", string(ctx.Method()),
		"path", path,
		"status", ctx.Response.StatusCode(),
		"elapsed", time.Since(start))
}

func (h *Handler) post(ctx *fasthttp.RequestCtx, id string, next func(*fasthttp.RequestCtx, string)) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	next(ctx, id)
}

func (h *Handler) get(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	next(ctx)
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func (h *Handler) calculate(ctx *fasthttp.RequestCtx, id string) {
	var dto loanRequestDTO
	if !decode(ctx, &dto) {
		return
	}
	req, err := dto.toRequest()
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	res, err := h.svc.Calculate(service.WithRequestID(ctx, id), req)
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, fromResult(res))
}

func (h *Handler) schedule(ctx *fasthttp.RequestCtx, id string) {
	var dto scheduleRequestDTO
	if !decode(ctx, &dto) {
		return
	}
	params, err := dto.toParams()
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	schedule, err := h.svc.GenerateSchedule(service.WithRequestID(ctx, id), params)
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"schedule": fromSchedule(schedule),
		"summary":  amortization.Summarize(schedule),
	})
}

func (h *Handler) effectiveRates(ctx *fasthttp.RequestCtx, _ string) {
	var dto effectiveRatesRequestDTO
	if !decode(ctx, &dto) {
		return
	}
	rates, err := h.svc.EffectiveRates(dto.NominalRate, amortization.RatePeriod(dto.RatePeriod))
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, rates)
}

func (h *Handler) accrual(ctx *fasthttp.RequestCtx, _ string) {
	var dto accrualRequestDTO
	if !decode(ctx, &dto) {
		return
	}
	start, err := parseDate("start", dto.Start)
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	end, err := parseDate("end", dto.End)
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	interest, err := h.svc.AccruedInterest(dto.Balance, dto.AnnualRate, start, end, amortization.DayCountConv(dto.DayCountConv))
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, accrualResponseDTO{
		AccruedInterest: interest,
		Days:            int(end.Sub(start).Hours() / 24),
	})
}

func (h *Handler) presets(ctx *fasthttp.RequestCtx) {
	presets := h.svc.Presets()
	out := make([]presetDTO, 0, len(presets))
	for _, p := range presets {
		out = append(out, fromPreset(p))
	}
	writeJSON(ctx, fasthttp.StatusOK, out)
}

func (h *Handler) preset(ctx *fasthttp.RequestCtx, id, presetID string) {
	if string(ctx.QueryArgs().Peek("calculate")) != "true" {
		p, err := h.svc.Preset(presetID)
		if err != nil {
			writeCalcError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, fromPreset(p))
		return
	}
	p, res, err := h.svc.CalculatePreset(service.WithRequestID(ctx, id), presetID)
	if err != nil {
		writeCalcError(ctx, err)
		return
	}
	dto := fromPreset(p)
	result := fromResult(res)
	dto.Result = &result
	writeJSON(ctx, fasthttp.StatusOK, dto)
}

func writeCalcError(ctx *fasthttp.RequestCtx, err error) {
	var verrs amortization.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(ctx, fasthttp.StatusUnprocessableEntity, errorResponseDTO{
			Status:  fasthttp.StatusUnprocessableEntity,
			Message: "validation failed",
			Fields:  verrs,
		})
	case errors.Is(err, amortization.ErrPresetNotFound):
		writeError(ctx, fasthttp.StatusNotFound, "preset not found", err)
	case errors.Is(err, amortization.ErrInvalidArgument):
		writeError(ctx, fasthttp.StatusBadRequest, "calculation failed", err)
	default:
		writeError(ctx, fasthttp.StatusInternalServerError, "calculation failed", err)
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string, err error) {
	resp := errorResponseDTO{Status: status, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(ctx, status, resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error(`{"status":500,"message":"encoding failed"}`, fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
