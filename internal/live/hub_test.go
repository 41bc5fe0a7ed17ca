package live

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewHub(log)
	t.Cleanup(h.Close)
	return h
}

func recv(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		if !ok {
			t.Fatal("session channel closed unexpectedly")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func waitClosed(t *testing.T, s *Session) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for channel close")
		}
	}
}

func TestHub_PushDelivers(t *testing.T) {
	h := newTestHub(t)

	s := h.Register(7)
	h.Push(7, Notification(map[string]any{"n": 1}))

	ev := recv(t, s)
	if ev.Type != TypeNotification {
		t.Fatalf("expected notification, got %q", ev.Type)
	}
}

func TestHub_PushToOfflineUserIsNoop(t *testing.T) {
	h := newTestHub(t)

	s := h.Register(1)
	h.Push(99, Connected())
	h.Push(1, Connected())

	// only the event addressed to user 1 arrives
	ev := recv(t, s)
	if ev.Type != TypeConnected {
		t.Fatalf("expected connected, got %q", ev.Type)
	}
	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected extra event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_RegisterReplacesAndClosesPrior(t *testing.T) {
	h := newTestHub(t)

	first := h.Register(3)
	second := h.Register(3)

	waitClosed(t, first)

	h.Push(3, Connected())
	ev := recv(t, second)
	if ev.Type != TypeConnected {
		t.Fatalf("expected connected on second session, got %q", ev.Type)
	}
}

func TestHub_StaleUnregisterKeepsNewerSession(t *testing.T) {
	h := newTestHub(t)

	first := h.Register(5)
	second := h.Register(5)
	waitClosed(t, first)

	// the replaced connection's teardown fires after the replacement; the
	// newer session must survive it
	h.Unregister(first)

	h.Push(5, Connected())
	ev := recv(t, second)
	if ev.Type != TypeConnected {
		t.Fatalf("expected connected, got %q", ev.Type)
	}

	h.Unregister(second)
	waitClosed(t, second)
}

func TestHub_PushManyScopesToGivenUsers(t *testing.T) {
	h := newTestHub(t)

	a := h.Register(1)
	b := h.Register(2)
	c := h.Register(3)

	h.PushMany([]uint64{1, 2}, ChatMessage(10, map[string]any{"message": "hi"}))

	if ev := recv(t, a); ev.RoomID != 10 {
		t.Fatalf("expected room 10, got %d", ev.RoomID)
	}
	if ev := recv(t, b); ev.RoomID != 10 {
		t.Fatalf("expected room 10, got %d", ev.RoomID)
	}
	select {
	case ev := <-c.Events():
		t.Fatalf("user 3 should not receive the event, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	h := newTestHub(t)

	s := h.Register(9)
	for i := 0; i < h.buffer+10; i++ {
		h.Push(9, Notification(map[string]any{"i": i}))
	}
	// a quiesce query proves all pushes were processed without blocking
	if !h.Connected(9) {
		t.Fatal("expected user 9 connected")
	}
	if got := len(s.events); got != h.buffer {
		t.Fatalf("expected buffer of %d retained events, got %d", h.buffer, got)
	}
}

func TestHub_Connected(t *testing.T) {
	h := newTestHub(t)

	if h.Connected(4) {
		t.Fatal("expected user 4 offline")
	}
	s := h.Register(4)
	if !h.Connected(4) {
		t.Fatal("expected user 4 online")
	}
	h.Unregister(s)
	waitClosed(t, s)
	if h.Connected(4) {
		t.Fatal("expected user 4 offline after unregister")
	}
}
