package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
)

func startHub(t *testing.T, buffer int) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(logger.Nop(), buffer)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func receive(t *testing.T, s *Session) Message {
	t.Helper()
	select {
	case data := <-s.Messages():
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to decode message: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHub_PublishReachesOnlyOwner(t *testing.T) {
	hub, _ := startHub(t, 4)
	ctx := context.Background()

	alice, err := hub.Register(ctx, "alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	bob, err := hub.Register(ctx, "bob")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	hub.Publish("alice", EventSaleAdded, map[string]string{"id": "s1"})

	msg := receive(t, alice)
	if msg.Event != EventSaleAdded {
		t.Errorf("Event = %v, want %v", msg.Event, EventSaleAdded)
	}

	select {
	case <-bob.Messages():
		t.Error("bob received alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterPurgesSession(t *testing.T) {
	hub, _ := startHub(t, 4)
	ctx := context.Background()

	s, err := hub.Register(ctx, "alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if got := hub.UserCount("alice"); got != 1 {
		t.Fatalf("UserCount() = %d, want 1", got)
	}

	hub.Unregister(s)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session was not closed")
	}
	if got := hub.UserCount("alice"); got != 0 {
		t.Errorf("UserCount() = %d, want 0", got)
	}

	// a second unregister is a no-op
	hub.Unregister(s)
}

func TestHub_FullSessionDropsEvents(t *testing.T) {
	hub, _ := startHub(t, 1)
	ctx := context.Background()

	s, err := hub.Register(ctx, "alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	hub.Publish("alice", EventExpenseAdded, nil)
	hub.Publish("alice", EventExpenseUpdated, nil)
	hub.Publish("alice", EventExpenseDeleted, nil)

	first := receive(t, s)
	if first.Event != EventExpenseAdded {
		t.Errorf("Event = %v, want %v", first.Event, EventExpenseAdded)
	}

	// give the hub time to process the remaining publishes
	time.Sleep(50 * time.Millisecond)
	if n := len(s.Messages()); n > 1 {
		t.Errorf("buffered messages = %d, want at most 1", n)
	}
}

func TestHub_StopClosesSessions(t *testing.T) {
	hub, cancel := startHub(t, 4)

	s, err := hub.Register(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session was not closed on shutdown")
	}

	if _, err := hub.Register(context.Background(), "alice"); err != ErrHubClosed {
		t.Errorf("Register() after stop error = %v, want ErrHubClosed", err)
	}

	// publishing after stop must not block
	hub.Publish("alice", EventSaleAdded, nil)
}
