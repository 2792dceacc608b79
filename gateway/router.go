// Package gateway implements the FileDeck UI gateway: it serves the
// static pages, reverse-proxies API traffic to the auth and file services,
// and exposes health and metrics endpoints. It holds no session state and
// makes no authorization decisions.
package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/filedeck/filedeck/config"
	gwmiddleware "github.com/filedeck/filedeck/gateway/middleware"
	"github.com/filedeck/filedeck/metrics"
)

// NewRouter creates and configures the gateway HTTP router.
func NewRouter(cfg *config.AppConfig, logger *zap.Logger) (chi.Router, error) {
	authProxy, err := newServiceProxy(cfg.Services.AuthURL, logger)
	if err != nil {
		return nil, err
	}
	fileProxy, err := newServiceProxy(cfg.Services.FileURL, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Basic middleware
	r.Use(gwmiddleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Gateway.RequestTimeout))
	r.Use(gwmiddleware.SecurityHeaders())

	// Access logging and metrics
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, req.ProtoMajor)

			next.ServeHTTP(ww, req)

			duration := time.Since(start)
			route := chi.RouteContext(req.Context()).RoutePattern()
			if route == "" {
				route = req.URL.Path
			}

			metrics.GatewayRequestsTotal.WithLabelValues(
				req.Method,
				route,
				http.StatusText(ww.Status()),
			).Inc()

			metrics.GatewayRequestDuration.WithLabelValues(
				req.Method,
				route,
			).Observe(duration.Seconds())

			logger.Info("HTTP request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", duration),
				zap.String("remote_addr", req.RemoteAddr))
		})
	})

	// Health check endpoint (no auth required)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			logger.Error("Failed to write health check response", zap.Error(err))
		}
	})

	// Metrics endpoint (no auth required)
	r.Handle("/metrics", promhttp.Handler())

	// Static pages
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/login", http.StatusFound)
	})
	r.Get("/login", pageHandler("login.html"))
	r.Get("/dashboard/ui", pageHandler("dashboard.html"))
	r.Get("/admin/ui", pageHandler("admin.html"))

	// Auth service proxy. The login route carries the rate limiter: it is
	// the one unauthenticated mutating endpoint the gateway exposes.
	loginLimiter := rate.NewLimiter(rate.Limit(cfg.Gateway.LoginRate), cfg.Gateway.LoginBurst)
	r.With(gwmiddleware.RateLimit(loginLimiter, logger)).
		Post("/api/login", authProxy.ServeHTTP)
	r.Handle("/api/*", authProxy)

	// File service proxy
	r.Handle("/dashboard", fileProxy)
	r.Handle("/dashboard/*", fileProxy)

	return r, nil
}
