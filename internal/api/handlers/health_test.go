package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/bizlytic/internal/testutil"
)

func TestHealthHandler_Readyz(t *testing.T) {
	db := testutil.NewTestDB(t)
	handler := NewHealthHandler(db, testLogger())

	rr := httptest.NewRecorder()
	handler.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	db.Close()
	rr = httptest.NewRecorder()
	handler.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status after close = %d, want 503", rr.Code)
	}
}
