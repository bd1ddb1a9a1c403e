package app

import (
	"fmt"
	"testing"

	"github.com/dkeye/zonebridge/internal/core"
)

func TestHubBroadcastReachesEverySession(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	h.Add("a", a)
	h.Add("b", b)

	const n = 500
	for i := range n {
		res, err := h.Broadcast(map[string]int{"seq": i})
		if err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
		if res.SendTo != 2 || len(res.Dropped) != 0 {
			t.Fatalf("result = %+v", res)
		}
	}
	for _, c := range []*fakeConn{a, b} {
		if len(c.frames) != n {
			t.Fatalf("frames = %d, want %d", len(c.frames), n)
		}
		if got, want := string(c.frames[n-1]), fmt.Sprintf(`{"seq":%d}`, n-1); got != want {
			t.Fatalf("last frame = %s, want %s", got, want)
		}
	}
}

func TestHubKeepsClosingSessionUntilRemoved(t *testing.T) {
	h := NewHub()
	open, closing := &fakeConn{}, &fakeConn{closed: true}
	h.Add("a", open)
	h.Add("c", closing)

	res, err := h.Broadcast(map[string]string{"command": "zones_changed"})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if res.SendTo != 1 || len(res.Dropped) != 1 || res.Dropped[0] != core.SessionID("c") {
		t.Fatalf("result = %+v", res)
	}
	if string(open.frames[0]) != `{"command":"zones_changed"}` {
		t.Fatalf("frame = %s", open.frames[0])
	}
	if !h.Has("c") || h.Len() != 2 {
		t.Fatal("hub dropped a session the transport has not removed")
	}
	if !h.Remove("c") || h.Len() != 1 {
		t.Fatal("Remove() after transport close failed")
	}
}

func TestHubSendUnknownSession(t *testing.T) {
	h := NewHub()
	if err := h.Send("ghost", "x"); err == nil {
		t.Fatal("Send() to unknown session returned nil error")
	}
}

func TestHubCloseAll(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	h.Add("a", a)
	h.Add("b", b)
	h.CloseAll()
	if !a.closed || !b.closed || h.Len() != 0 {
		t.Fatal("CloseAll did not close every session")
	}
}
