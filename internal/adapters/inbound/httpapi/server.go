// Package httpapi serves the calculation engine as a JSON API over fasthttp.
package httpapi

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/zzptax/zzptax/internal/application"
)

const (
	requestIDHeader = "X-Request-ID"
	limiterIdleTTL  = 10 * time.Minute
)

// Server routes requests to the calculation service.
type Server struct {
	svc            *application.CalcService
	logger         *slog.Logger
	metrics        *metrics
	metricsHandler fasthttp.RequestHandler

	limiters *cache.Cache
	rps      rate.Limit
	burst    int
}

func NewServer(svc *application.CalcService, logger *slog.Logger, settings Settings) *Server {
	m := newMetrics()
	return &Server{
		svc:            svc.WithoutHistory(),
		logger:         logger,
		metrics:        m,
		metricsHandler: m.handler(),
		limiters:       cache.New(limiterIdleTTL, 2*limiterIdleTTL),
		rps:            rate.Limit(settings.RateLimitRPS),
		burst:          settings.RateLimitBurst,
	}
}

// Handler returns the full middleware chain.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.withRequestLog(s.withRateLimit(s.route))
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "zzptax",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr, "years", s.svc.SupportedYears(), "revision", s.svc.Revision())
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.ShutdownWithContext(shutdownCtx)
	}
}

func (s *Server) withRequestLog(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()

		id := string(ctx.Request.Header.Peek(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Response.Header.Set(requestIDHeader, id)

		next(ctx)

		route := routeLabel(string(ctx.Path()))
		status := ctx.Response.StatusCode()
		elapsed := time.Since(start)

		s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())

		level := slog.LevelInfo
		if status >= fasthttp.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(context.Background(), level, "http request",
			"request_id", id,
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"remote_ip", ctx.RemoteIP().String(),
		)
	}
}

func (s *Server) withRateLimit(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ip := ctx.RemoteIP().String()
		if !s.limiterFor(ip).Allow() {
			s.metrics.rateLimited.Inc()
			s.logger.Warn("rate limit exceeded",
				"method", string(ctx.Method()),
				"path", string(ctx.Path()),
				"remote_ip", ip,
			)
			writeError(ctx, fasthttp.StatusTooManyRequests, fasthttp.StatusMessage(fasthttp.StatusTooManyRequests))
			return
		}
		next(ctx)
	}
}

// limiterFor returns the token bucket of one client. Buckets of clients that
// stay idle for limiterIdleTTL are evicted.
func (s *Server) limiterFor(ip string) *rate.Limiter {
	if v, ok := s.limiters.Get(ip); ok {
		l := v.(*rate.Limiter)
		s.limiters.Set(ip, l, cache.DefaultExpiration)
		return l
	}
	l := rate.NewLimiter(s.rps, s.burst)
	if err := s.limiters.Add(ip, l, cache.DefaultExpiration); err != nil {
		if v, ok := s.limiters.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}
