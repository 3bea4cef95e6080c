package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()
	rl.Allow("10.0.0.1")

	rl.cleanup(time.Now().Add(2 * clientIdleThreshold))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.clients)
}

func TestRateLimiter_Limit(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Stop()
	calls := 0
	h := rl.Limit(func(ctx *fasthttp.RequestCtx) {
		calls++
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	first := do(h, fasthttp.MethodGet, "/v1/presets", "")
	second := do(h, fasthttp.MethodGet, "/v1/presets", "")

	assert.Equal(t, fasthttp.StatusOK, first.Response.StatusCode())
	assert.Equal(t, fasthttp.StatusTooManyRequests, second.Response.StatusCode())
	assert.Equal(t, 1, calls)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
