package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// Recovery turns a handler panic into a 500 and logs the stack
func Recovery(log *logger.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.WithFields(logger.Fields{
						"error":      rec,
						"stack":      string(debug.Stack()),
						"path":       r.URL.Path,
						"method":     r.Method,
						"request_id": w.Header().Get(RequestIDHeader),
					}).Error("Panic recovered in HTTP handler")

					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
