package chat

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/GuessWho/internal/core"
	"github.com/gorilla/websocket"
)

var (
	ErrBackpressure     = errors.New("backpressure")
	ErrConnectionClosed = errors.New("connection closed")
	ErrRecipientOffline = errors.New("recipient offline")
)

// WsChatConn is one player's websocket. Writes go through a bounded channel
// drained by the write pump; TrySend never blocks.
type WsChatConn struct {
	id   string
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsChatConn(id string, ws *websocket.Conn, buffer int) *WsChatConn {
	if buffer <= 0 {
		buffer = 32
	}
	return &WsChatConn{id: id, conn: ws, send: make(chan core.Frame, buffer)}
}

func (c *WsChatConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsChatConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func sendJSON(c core.ChatConnection, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.TrySend(b)
}
