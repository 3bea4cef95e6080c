package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Server is the fasthttp front of the calculator.
type Server struct {
	srv     *fasthttp.Server
	limiter *RateLimiter
}

// NewServer rate-limits every route of h except /healthz and /metrics.
func NewServer(name string, h *Handler, limiter *RateLimiter) *Server {
	limited := limiter.Limit(h.Handle)
	return &Server{
		limiter: limiter,
		srv: &fasthttp.Server{
			Name: name,
			Handler: func(ctx *fasthttp.RequestCtx) {
				switch string(ctx.Path()) {
				case "/healthz", "/metrics":
					h.Handle(ctx)
				default:
					limited(ctx)
				}
			},
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			IdleTimeout:        60 * time.Second,
			MaxRequestBodySize: 1 << 20,
		},
	}
}

// MetricsHandler adapts a net/http metrics handler to fasthttp.
func MetricsHandler(h http.Handler) fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(h)
}

func (s *Server) ListenAndServe(addr string) error {
	return s.srv.ListenAndServe(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	return s.srv.ShutdownWithContext(ctx)
}
