package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"market-admin/internal/common/logger"
	"market-admin/internal/common/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MetricsMiddleware records request counts and latency per route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()
		path := routePattern(r)
		status := strconv.Itoa(ww.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(path, r.Method, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(path, r.Method).Observe(duration)
	})
}

// RequestLogger logs one line per request and exposes a request-scoped
// logger through logger.FromContext.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			reqLog := log.WithFields(map[string]interface{}{
				"requestId": middleware.GetReqID(r.Context()),
			})
			next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), reqLog)))

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"durationMs": time.Since(start).Milliseconds(),
				"remoteAddr": r.RemoteAddr,
			}
			if ww.Status() >= http.StatusInternalServerError {
				reqLog.Warn("request served", fields)
				return
			}
			reqLog.Info("request served", fields)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
