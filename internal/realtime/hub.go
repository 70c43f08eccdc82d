package realtime

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
)

// Event names pushed to clients
const (
	EventSaleAdded       = "sale-added"
	EventSaleUpdated     = "sale-updated"
	EventSaleDeleted     = "sale-deleted"
	EventExpenseAdded    = "expense-added"
	EventExpenseUpdated  = "expense-updated"
	EventExpenseDeleted  = "expense-deleted"
	EventCalendarAdded   = "event-added"
	EventCalendarUpdated = "event-updated"
	EventCalendarDeleted = "event-deleted"
	EventConnected       = "connected"
)

// ErrHubClosed is returned when registering after the hub stopped
var ErrHubClosed = stderrors.New("realtime hub is closed")

// Publisher pushes best-effort events to a user's open sessions
type Publisher interface {
	Publish(userID, event string, payload interface{})
}

// Message is the envelope written to a session
type Message struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
	userID    string
}

// Session is one connected client stream
type Session struct {
	ID       string
	UserID   string
	messages chan []byte
	done     chan struct{}
}

// Messages yields encoded messages addressed to the session
func (s *Session) Messages() <-chan []byte { return s.messages }

// Done is closed when the hub drops the session
func (s *Session) Done() <-chan struct{} { return s.done }

// Hub tracks open sessions per user and fans out published events
type Hub struct {
	sessions   map[string]map[string]*Session
	register   chan *Session
	unregister chan *Session
	broadcast  chan Message
	stopped    chan struct{}
	mu         sync.RWMutex
	buffer     int
	logger     *logger.Logger
}

// NewHub creates a hub; call Run to start it
func NewHub(log *logger.Logger, buffer int) *Hub {
	if buffer < 1 {
		buffer = 16
	}
	return &Hub{
		sessions:   make(map[string]map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		broadcast:  make(chan Message, 256),
		stopped:    make(chan struct{}),
		buffer:     buffer,
		logger:     log,
	}
}

// Run serves registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case s := <-h.register:
			h.mu.Lock()
			if h.sessions[s.UserID] == nil {
				h.sessions[s.UserID] = make(map[string]*Session)
			}
			h.sessions[s.UserID][s.ID] = s
			h.mu.Unlock()
			metrics.SetRealtimeSessions(h.Count())
			h.logger.WithFields(map[string]interface{}{
				"session_id": s.ID,
				"user_id":    s.UserID,
			}).Debug("Realtime session opened")

		case s := <-h.unregister:
			h.remove(s)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Register opens a session for userID
func (h *Hub) Register(ctx context.Context, userID string) (*Session, error) {
	s := &Session{
		ID:       uuid.NewString(),
		UserID:   userID,
		messages: make(chan []byte, h.buffer),
		done:     make(chan struct{}),
	}
	select {
	case h.register <- s:
		return s, nil
	case <-h.stopped:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unregister closes a session; unknown sessions are ignored
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.stopped:
	}
}

// Publish queues an event for userID's sessions without blocking. Events are
// dropped when the queue is full.
func (h *Hub) Publish(userID, event string, payload interface{}) {
	msg := Message{Event: event, Data: payload, Timestamp: time.Now().UTC(), userID: userID}
	select {
	case h.broadcast <- msg:
	default:
		metrics.RecordRealtimeEvent("dropped")
		h.logger.With("event", event).Warn("Realtime queue full, event dropped")
	}
}

// Count returns the number of open sessions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, byID := range h.sessions {
		n += len(byID)
	}
	return n
}

// UserCount returns the number of open sessions of one user
func (h *Hub) UserCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

func (h *Hub) deliver(msg Message) {
	h.mu.RLock()
	targets := h.sessions[msg.userID]
	if len(targets) == 0 {
		h.mu.RUnlock()
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.mu.RUnlock()
		h.logger.ErrorWithErr(err, "Failed to encode realtime event")
		return
	}

	for _, s := range targets {
		select {
		case s.messages <- data:
			metrics.RecordRealtimeEvent("delivered")
		default:
			metrics.RecordRealtimeEvent("dropped")
		}
	}
	h.mu.RUnlock()
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	byID, ok := h.sessions[s.UserID]
	if ok {
		if _, ok = byID[s.ID]; ok {
			delete(byID, s.ID)
			if len(byID) == 0 {
				delete(h.sessions, s.UserID)
			}
			close(s.done)
		}
	}
	h.mu.Unlock()

	if ok {
		metrics.SetRealtimeSessions(h.Count())
		h.logger.WithFields(map[string]interface{}{
			"session_id": s.ID,
			"user_id":    s.UserID,
		}).Debug("Realtime session closed")
	}
}

func (h *Hub) shutdown() {
	close(h.stopped)

	h.mu.Lock()
	for userID, byID := range h.sessions {
		for _, s := range byID {
			close(s.done)
		}
		delete(h.sessions, userID)
	}
	h.mu.Unlock()
	metrics.SetRealtimeSessions(0)
}
