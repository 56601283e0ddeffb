package sse

import (
	"strings"
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestSubscribePublishUnsubscribe(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("ClientCount = %d, want 1", n)
	}

	b.Publish(Event{Type: "test", Data: map[string]string{"k": "v"}})
	msg := recvEvent(t, ch)
	if !strings.Contains(msg, "event: test") || !strings.Contains(msg, `"k":"v"`) {
		t.Errorf("message = %q", msg)
	}

	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount after unsubscribe = %d, want 0", n)
	}
	if _, ok := <-ch; ok {
		t.Error("channel not closed after unsubscribe")
	}
}

func TestPublishChangeEmitsEntityAndPending(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishChange("note", "upserted", "n1", 3)

	first := recvEvent(t, ch)
	if !strings.Contains(first, "event: note.upserted") || !strings.Contains(first, `"id":"n1"`) {
		t.Errorf("entity event = %q", first)
	}

	second := recvEvent(t, ch)
	if !strings.Contains(second, "event: sync.pending") || !strings.Contains(second, `"count":3`) {
		t.Errorf("pending event = %q", second)
	}
}

func TestPendingThrottle(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()

	b.PublishChange("note", "upserted", "n1", 1)
	recvEvent(t, ch) // note.upserted
	recvEvent(t, ch) // first sync.pending passes

	// Within the throttle window only the entity event comes through.
	b.PublishChange("note", "deleted", "n1", 2)
	msg := recvEvent(t, ch)
	if !strings.Contains(msg, "event: note.deleted") {
		t.Fatalf("message = %q", msg)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected event inside throttle window: %q", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseTerminatesClients(t *testing.T) {
	b := NewBroker(time.Second)
	ch := b.Subscribe()

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("got event after close, want closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}

	// All operations are safe after close.
	b.Publish(Event{Type: "late"})
	b.PublishChange("note", "upserted", "x", 0)
	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount after close = %d, want 0", n)
	}
	b.Close() // idempotent
}

func TestSubscribeAfterClose(t *testing.T) {
	b := NewBroker(time.Second)
	b.Close()

	ch := b.Subscribe()
	if _, ok := <-ch; ok {
		t.Error("subscribe after close returned open channel")
	}
}
