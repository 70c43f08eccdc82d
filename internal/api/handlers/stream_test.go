package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/api/middleware"
	"github.com/pratik-mahalle/bizlytic/internal/realtime"
)

func TestStreamHandler_DeliversPublishedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub(testLogger(), 8)
	go hub.Run(ctx)

	handler := NewStreamHandler(hub, time.Hour, testLogger())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.Stream(w, r.WithContext(context.WithValue(r.Context(), middleware.UserIDKey, "u1")))
	}))
	defer srv.Close()

	reqCtx, stop := context.WithTimeout(ctx, 5*time.Second)
	defer stop()
	req, _ := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if line := lines.Text(); strings.HasPrefix(line, "data: ") {
				return line
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return ""
	}

	if first := next(); !strings.Contains(first, `"event":"connected"`) {
		t.Fatalf("first message = %s, want connected", first)
	}
	hub.Publish("u2", realtime.EventSaleAdded, "not for u1")
	hub.Publish("u1", realtime.EventSaleAdded, map[string]string{"id": "s1"})

	if msg := next(); !strings.Contains(msg, `"event":"sale-added"`) || !strings.Contains(msg, `"s1"`) {
		t.Errorf("message = %s, want u1's sale-added", msg)
	}
}

func TestStreamHandler_HubClosed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := realtime.NewHub(testLogger(), 8)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	rr := httptest.NewRecorder()
	NewStreamHandler(hub, time.Second, testLogger()).Stream(rr, newRequest(http.MethodGet, "/api/v1/events/stream", "u1", nil, nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}
