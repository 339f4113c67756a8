package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per HTTP request. A request id is taken from
// the X-Request-ID header or generated, echoed back and stored in the
// request context for downstream loggers.
func RequestLogger(log *logger.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			ctx := logger.WithContext(r.Context(), logger.LogContext{
				Component: "api",
				RequestID: requestID,
			})

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)
			entry := log.WithRequestID(requestID).WithFields(logger.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      wrapped.statusCode,
				"duration_ms": duration.Milliseconds(),
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.UserAgent(),
			})
			switch {
			case wrapped.statusCode >= 500:
				entry.Error("HTTP request failed")
			case wrapped.statusCode >= 400:
				entry.Warn("HTTP request rejected")
			default:
				entry.Info("HTTP request completed")
			}
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
