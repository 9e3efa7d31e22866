package middleware

import (
	"log"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// probePath reports whether the path is hit by orchestrator polling; those
// requests are not worth a log line each.
func probePath(p string) bool {
	return p == "/health" || p == "/ready" || p == "/live"
}

// LoggingMiddleware logs one line per HTTP request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if probePath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		log.Printf(
			"method=%s path=%s status=%d duration=%s bytes=%d ip=%s",
			r.Method,
			r.URL.Path,
			wrapped.statusCode,
			time.Since(start),
			wrapped.written,
			r.RemoteAddr,
		)
	})
}
