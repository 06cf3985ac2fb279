package hub

import (
	"encoding/json"
	"testing"
	"time"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	h := New(nil)
	go h.Run()
	t.Cleanup(h.Stop)
	waitFor(t, h.IsRunning, "hub never started")
	return h
}

// attach registers a bare client with the given send buffer, bypassing
// the websocket plumbing.
func attach(t *testing.T, h *Hub, buffer int) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, buffer)}
	h.register <- c
	waitFor(t, func() bool { return h.ClientCount() > 0 }, "client never registered")
	return c
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPublishReachesSubscriber(t *testing.T) {
	h := newRunningHub(t)
	c := attach(t, h, 4)

	env, err := NewEnvelope("rep", "s1", map[string]int{"rep": 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Publish(env); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-c.send:
		var got Envelope
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatal(err)
		}
		if got.Type != "rep" || got.Session != "s1" {
			t.Fatalf("envelope = %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestSlowSubscriberDroppedWithoutBlocking(t *testing.T) {
	h := newRunningHub(t)

	fast := attach(t, h, 8)
	go func() {
		for range fast.send {
		}
	}()

	// The slow client never reads from its one-slot buffer.
	attach(t, h, 1)
	waitFor(t, func() bool { return h.ClientCount() == 2 }, "both clients never attached")

	// The first event fills the slow client's buffer and the second
	// overflows it.
	for i := 0; i < 2; i++ {
		env, _ := NewEnvelope("rep", "s1", i)
		if err := h.Publish(env); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, func() bool { return h.ClientCount() == 1 }, "slow subscriber was never dropped")

	// The surviving client still receives further events.
	env, _ := NewEnvelope("status", "", "ok")
	if err := h.Publish(env); err != nil {
		t.Fatal(err)
	}
	if h.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", h.ClientCount())
	}
}

func TestStopDisconnectsSubscribers(t *testing.T) {
	h := newRunningHub(t)
	c := attach(t, h, 4)

	h.Stop()
	waitFor(t, func() bool { return !h.IsRunning() }, "hub never stopped")

	if _, ok := <-c.send; ok {
		t.Fatal("send channel left open after Stop")
	}
	if h.ClientCount() != 0 {
		t.Fatalf("ClientCount = %d after Stop, want 0", h.ClientCount())
	}
}
