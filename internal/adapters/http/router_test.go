package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/GuessWho/internal/adapters/chat"
	"github.com/dkeye/GuessWho/internal/app"
	"github.com/dkeye/GuessWho/internal/app/orch"
	"github.com/dkeye/GuessWho/internal/config"
	"github.com/gorilla/websocket"
)

type frame struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Default()
	cfg.Mode = "test"
	reg := app.NewRegistry()
	hub := chat.NewHub()
	o := &orch.Orchestrator{Registry: reg, Fanout: app.NewFanout(hub, 2, time.Second)}
	srv := httptest.NewServer(SetupRouter(ctx, cfg, reg, chat.NewChatWSController(o, hub, cfg)))
	t.Cleanup(func() {
		hub.CloseAll()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/chat?" + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, text string) {
	t.Helper()
	if err := ws.WriteJSON(map[string]string{"type": "command", "text": text}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := ws.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("wrong status expected: %d got: %d", http.StatusOK, resp.StatusCode)
	}
	if resp.Header.Get("X-Connection-Id") == "" {
		t.Errorf("response should carry a connection id")
	}
}

func TestChatRequiresPlayerID(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/ws/chat?player_id=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("wrong status expected: %d got: %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestChatRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	alice := dial(t, srv, "player_id=1&name=Alice")
	bob := dial(t, srv, "player_id=2&name=Bob")

	send(t, alice, "/create")
	created := read(t, alice)
	code, ok := strings.CutPrefix(created.Text, "Room created! The code is: ")
	if created.Type != "message" || !ok || len(code) != 4 {
		t.Fatalf("wrong create reply: %+v", created)
	}

	send(t, bob, "/join "+code)
	if f := read(t, bob); !strings.HasPrefix(f.Text, "You joined room "+code) {
		t.Errorf("wrong join reply: %+v", f)
	}
	if f := read(t, alice); f.Text != "Bob joined the room" {
		t.Errorf("wrong join notice: %+v", f)
	}

	resp, err := http.Get(srv.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("get rooms: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Rooms []roomView `json:"rooms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(body.Rooms) != 1 || body.Rooms[0].Code != code || body.Rooms[0].Host != "Alice" || body.Rooms[0].PlayerCount != 2 {
		t.Errorf("wrong rooms: %+v", body.Rooms)
	}

	if err := alice.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if f := read(t, alice); f.Type != "pong" {
		t.Errorf("wrong frame expected: pong got: %+v", f)
	}
}
