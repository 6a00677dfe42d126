package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/GuessWho/internal/app"
	"github.com/dkeye/GuessWho/internal/app/orch"
	"github.com/dkeye/GuessWho/internal/core"
	"github.com/dkeye/GuessWho/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	if c.full {
		return ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) decoded(t *testing.T) []map[string]string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]string, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]string
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("frame %s is not json: %v", f, err)
		}
		out = append(out, m)
	}
	return out
}

func TestHubNotify(t *testing.T) {
	h := NewHub()
	ctx := context.Background()
	if err := h.Notify(ctx, 1, "hi"); err != ErrRecipientOffline {
		t.Errorf("wrong error expected: %v got: %v", ErrRecipientOffline, err)
	}

	c := &fakeConn{}
	h.Bind(1, c)
	if err := h.Notify(ctx, 1, "hi"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	frames := c.decoded(t)
	if len(frames) != 1 || frames[0]["type"] != frameMessage || frames[0]["text"] != "hi" {
		t.Errorf("wrong frames: %v", frames)
	}

	c.full = true
	if err := h.Notify(ctx, 1, "again"); err != ErrBackpressure {
		t.Errorf("wrong error expected: %v got: %v", ErrBackpressure, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := h.Notify(cancelled, 1, "late"); err == nil {
		t.Errorf("notify on a cancelled context should fail")
	}
}

func TestHubRebind(t *testing.T) {
	h := NewHub()
	old, fresh := &fakeConn{}, &fakeConn{}
	if prev := h.Bind(1, old); prev != nil {
		t.Errorf("first bind should not replace anything")
	}
	if prev := h.Bind(1, fresh); prev != old {
		t.Errorf("second bind should return the old connection")
	}
	if h.Unbind(1, old) {
		t.Errorf("stale connection must not unbind the fresh one")
	}
	if !h.Online(1) {
		t.Errorf("player should still be online")
	}
	h.CloseAll()
	if h.Online(1) || !fresh.closed {
		t.Errorf("CloseAll should drop and close every connection")
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewCommandRateLimiter(2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow(1) || !rl.Allow(1) {
		t.Fatalf("first two commands should pass")
	}
	if rl.Allow(1) {
		t.Errorf("third command inside the window should be refused")
	}
	if !rl.Allow(2) {
		t.Errorf("other players are limited separately")
	}
	now = now.Add(time.Minute + time.Second)
	if !rl.Allow(1) {
		t.Errorf("command after the window should pass")
	}
	rl.Forget(1)
	if _, ok := rl.history[1]; ok {
		t.Errorf("history should be dropped")
	}

	var unlimited *CommandRateLimiter
	if !unlimited.Allow(1) {
		t.Errorf("nil limiter should allow everything")
	}
}

func newTestController(limit int) *ChatWSController {
	hub := NewHub()
	return &ChatWSController{
		Orch: &orch.Orchestrator{
			Registry: app.NewRegistry(),
			Fanout:   app.NewFanout(hub, 2, time.Second),
		},
		Hub:     hub,
		Limiter: NewCommandRateLimiter(limit, time.Minute),
	}
}

func TestHandleFrame(t *testing.T) {
	ctl := newTestController(2)
	ctx := context.Background()
	c := &fakeConn{}
	s := session{id: 7}

	s = ctl.handleFrame(ctx, s, c, []byte(`{"type":"ping"}`))
	s = ctl.handleFrame(ctx, s, c, []byte(`{"type":"command","text":"/start","name":"Neo"}`))
	s = ctl.handleFrame(ctx, s, c, []byte(`not json`))
	s = ctl.handleFrame(ctx, s, c, []byte(`{"type":"dance"}`))
	s = ctl.handleFrame(ctx, s, c, []byte(`{"type":"command","text":"/help"}`))
	s = ctl.handleFrame(ctx, s, c, []byte(`{"type":"command","text":"/help"}`))

	if s.name != "Neo" {
		t.Errorf("wrong session name expected: %q got: %q", "Neo", s.name)
	}
	frames := c.decoded(t)
	want := []string{framePong, frameMessage, frameError, frameError, frameMessage, frameError}
	if len(frames) != len(want) {
		t.Fatalf("wrong frame count expected: %d got: %d (%v)", len(want), len(frames), frames)
	}
	for i, typ := range want {
		if frames[i]["type"] != typ {
			t.Errorf("frame %d: wrong type expected: %s got: %s", i, typ, frames[i]["type"])
		}
	}
	if frames[2]["error"] != "bad_payload" || frames[3]["error"] != "unknown_type" || frames[5]["error"] != "rate_limited" {
		t.Errorf("wrong error reasons: %v %v %v", frames[2], frames[3], frames[5])
	}
}

func TestHandleFrameNotifiesRoom(t *testing.T) {
	ctl := newTestController(0)
	ctx := context.Background()
	host, guest := &fakeConn{}, &fakeConn{}
	ctl.Hub.Bind(1, host)
	ctl.Hub.Bind(2, guest)

	ctl.handleFrame(ctx, session{id: 1, name: "Alice"}, host, []byte(`{"type":"command","text":"/create"}`))
	info, ok := ctl.Orch.Registry.PlayerRoom(domain.PlayerID(1))
	if !ok {
		t.Fatalf("host should be in a room")
	}
	ctl.handleFrame(ctx, session{id: 2, name: "Bob"}, guest, []byte(`{"type":"command","text":"/join `+string(info.Code)+`"}`))

	frames := host.decoded(t)
	if len(frames) != 2 || frames[1]["text"] != "Bob joined the room" {
		t.Errorf("host should be told about the join, got %v", frames)
	}
}
