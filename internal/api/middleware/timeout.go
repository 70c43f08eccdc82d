package middleware

import (
	"net/http"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
)

// Timeout bounds a request. When the deadline passes the handler's context is
// canceled and the client gets a 503 with the standard error envelope.
// Streaming routes must not be wrapped.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	body := utils.ErrorBody(errors.ErrCodeTimeout, "Request timed out")
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return &jsonTimeoutHandler{inner: http.TimeoutHandler(next, d, body)}
	}
}

// jsonTimeoutHandler sets the JSON content type up front; the timeout body
// is written by net/http without headers of its own.
type jsonTimeoutHandler struct {
	inner http.Handler
}

func (h *jsonTimeoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.inner.ServeHTTP(w, r)
}
