package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
	mu         sync.Mutex
	fields     map[string]interface{}
}

type logFieldsKey struct{}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Flush keeps streaming responses working behind the logger.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// AddRequestLogField adds a field to the request log through the request
// context, for writers that hide the logger's wrapper.
func AddRequestLogField(r *http.Request, key string, value interface{}) {
	if rw, ok := r.Context().Value(logFieldsKey{}).(*responseWriter); ok {
		rw.setField(key, value)
	}
}

func (rw *responseWriter) setField(key string, value interface{}) {
	rw.mu.Lock()
	rw.fields[key] = value
	rw.mu.Unlock()
}

// Logger returns a middleware that logs HTTP requests
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				fields:         make(map[string]interface{}),
			}

			// Get request ID from context if available
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				if val := r.Context().Value(RequestIDKey); val != nil {
					requestID = val.(string)
				}
			}

			// Process request
			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), logFieldsKey{}, wrapped)))

			// Log request details
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"query":      r.URL.RawQuery,
				"status":     wrapped.statusCode,
				"duration":   duration.Milliseconds(),
				"bytes":      wrapped.written,
				"ip":         r.RemoteAddr,
				"user_agent": r.UserAgent(),
				"request_id": requestID,
			}

			// Merge custom fields
			wrapped.mu.Lock()
			for k, v := range wrapped.fields {
				fields[k] = v
			}
			wrapped.mu.Unlock()

			log.WithFields(fields).Info("HTTP request")
		})
	}
}
