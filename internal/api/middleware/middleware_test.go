package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error.Code
}

func TestRequirePro(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	pro := repo.Seed(&user.User{Email: "pro@example.com", Plan: user.PlanPro, SubscriptionStatus: user.StatusActive})
	lapsed := repo.Seed(&user.User{Email: "lapsed@example.com", Plan: user.PlanPro, SubscriptionStatus: user.StatusPastDue})
	basic := repo.Seed(&user.User{Email: "basic@example.com", Plan: user.PlanBasic})

	tests := []struct {
		name       string
		userID     string
		wantStatus int
		wantCode   string
	}{
		{"active pro passes", pro.ID, http.StatusNoContent, ""},
		{"past due pro is gated", lapsed.ID, http.StatusForbidden, errors.ErrCodePlanRequired},
		{"basic is gated", basic.ID, http.StatusForbidden, errors.ErrCodePlanRequired},
		{"unknown user", "missing", http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{"anonymous", "", http.StatusUnauthorized, errors.ErrCodeUnauthorized},
	}

	handler := RequirePro(repo, testLogger())(noContent)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export", nil)
			if tt.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), UserIDKey, tt.userID))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if got := errorCode(t, rr); got != tt.wantCode {
					t.Errorf("code = %s, want %s", got, tt.wantCode)
				}
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		}
	})

	rr := httptest.NewRecorder()
	Timeout(10*time.Millisecond)(slow).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if got := errorCode(t, rr); got != errors.ErrCodeTimeout {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeTimeout)
	}
}

func TestRecovery_HidesPanicValue(t *testing.T) {
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("db password is hunter2")
	})

	rr := httptest.NewRecorder()
	Recovery(testLogger())(boom).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "hunter2") {
		t.Errorf("response leaks panic value: %s", rr.Body.String())
	}
}

func TestUserRateLimit_KeysByUser(t *testing.T) {
	handler := UserRateLimit(0.001, 1)(noContent)

	call := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := call("u1"); got != http.StatusNoContent {
		t.Fatalf("first call status = %d", got)
	}
	if got := call("u1"); got != http.StatusTooManyRequests {
		t.Errorf("second call for u1 status = %d, want 429", got)
	}
	if got := call("u2"); got != http.StatusNoContent {
		t.Errorf("u2 status = %d, want its own budget", got)
	}
}
