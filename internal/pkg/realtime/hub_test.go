package realtime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublish_DropsSlowClientWithoutBlocking(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	channel := FeedChannel("stanford.edu")
	slow := &Client{hub: h, send: make(chan []byte, 1), userID: "slow", channel: channel}
	fast := &Client{hub: h, send: make(chan []byte, 8), userID: "fast", channel: channel}
	h.register <- slow
	h.register <- fast

	h.Publish(channel, "post", "one") // fills the slow client's buffer
	h.Publish(channel, "post", "two") // overflows it; the client is dropped

	done := make(chan struct{})
	go func() {
		h.Publish(channel, "post", "three")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked after a slow client filled its buffer")
	}

	waitFor(t, func() bool { return h.SubscriberCount(channel) == 1 },
		"slow client was not dropped")
	waitFor(t, func() bool { return len(fast.send) == 3 },
		"fast client did not receive all events")

	// The dropped client's send channel is closed so its write pump exits.
	waitFor(t, func() bool {
		select {
		case _, ok := <-slow.send:
			return !ok
		default:
			return false
		}
	}, "slow client's send channel was not closed")
}

func TestPublish_NoSubscribersIsNoOp(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	done := make(chan struct{})
	go func() {
		h.Publish(FeedChannel("mit.edu"), "post", "hello")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
}
