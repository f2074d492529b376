package rest

import (
	"net/http"
	"strings"
	"time"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/port"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// LoggerMiddleware кладет в контекст логгер и trace_id, который дальше уходит в запросы к каталогу.
// trace_id берется из заголовка запроса или генерируется и возвращается клиенту.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := strings.TrimSpace(r.Header.Get(traceHeader))
			if traceID == "" {
				traceID = uuid.NewString()
			}
			requestLogger := logger.WithFields(port.Fields{"trace_id": traceID})

			ctx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(r.Context(), requestLogger), traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceHeader, traceID)
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"remote_addr":   r.RemoteAddr,
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(started).Milliseconds(),
			}
			switch {
			case strings.HasSuffix(r.URL.Path, "/events"):
				requestLogger.Info("Event stream closed", fields)
			case ww.Status() >= http.StatusBadRequest:
				requestLogger.Warn("Request failed", fields)
			default:
				requestLogger.Info("Request finished", fields)
			}
		})
	}
}
