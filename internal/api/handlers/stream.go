package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/realtime"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
)

// SessionRegistry opens and closes realtime sessions
type SessionRegistry interface {
	Register(ctx context.Context, userID string) (*realtime.Session, error)
	Unregister(s *realtime.Session)
}

// StreamHandler serves the realtime event stream over Server-Sent Events
type StreamHandler struct {
	hub       SessionRegistry
	heartbeat time.Duration
	logger    *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub SessionRegistry, heartbeat time.Duration, log *logger.Logger) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &StreamHandler{
		hub:       hub,
		heartbeat: heartbeat,
		logger:    log,
	}
}

// Stream pushes ledger and calendar changes for the current user
// @Summary Realtime event stream
// @Description Server-Sent Events carrying sale, expense and calendar changes
// @Tags Realtime
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 403 {object} utils.ErrorResponse "Pro plan required"
// @Security BearerAuth
// @Router /events/stream [get]
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)

	session, err := h.hub.Register(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, errors.ServiceUnavailable("Realtime stream is unavailable"))
		return
	}
	defer h.hub.Unregister(session)

	// Streams outlive the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	hello, _ := json.Marshal(realtime.Message{
		Event:     realtime.EventConnected,
		Data:      map[string]string{"sessionId": session.ID},
		Timestamp: time.Now().UTC(),
	})
	if !h.send(w, rc, hello) {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case msg := <-session.Messages():
			if !h.send(w, rc, msg) {
				return
			}
		case <-ticker.C:
			if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case <-session.Done():
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *StreamHandler) send(w http.ResponseWriter, rc *http.ResponseController, data []byte) bool {
	if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
		h.logger.WithError(err).Debug("Realtime client went away")
		return false
	}
	return rc.Flush() == nil
}
