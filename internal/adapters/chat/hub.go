package chat

import (
	"context"
	"sync"

	"github.com/dkeye/GuessWho/internal/core"
	"github.com/dkeye/GuessWho/internal/domain"
	"github.com/rs/zerolog/log"
)

// Hub tracks the live connection of every player and delivers notices to
// them. It implements core.Notifier.
type Hub struct {
	mu    sync.RWMutex
	conns map[domain.PlayerID]core.ChatConnection
}

func NewHub() *Hub {
	return &Hub{conns: make(map[domain.PlayerID]core.ChatConnection)}
}

// Bind makes conn the player's connection and returns the one it replaced.
func (h *Hub) Bind(id domain.PlayerID, conn core.ChatConnection) core.ChatConnection {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.conns[id]
	h.conns[id] = conn
	log.Info().Str("module", "adapters.chat").Int64("player", int64(id)).Bool("replaced", prev != nil).Msg("bound connection")
	return prev
}

// Unbind removes conn only if it is still the player's current connection.
func (h *Hub) Unbind(id domain.PlayerID, conn core.ChatConnection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[id] != conn {
		return false
	}
	delete(h.conns, id)
	log.Info().Str("module", "adapters.chat").Int64("player", int64(id)).Msg("unbound connection")
	return true
}

func (h *Hub) Online(id domain.PlayerID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[id]
	return ok
}

func (h *Hub) Notify(ctx context.Context, to domain.PlayerID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.RLock()
	conn, ok := h.conns[to]
	h.mu.RUnlock()
	if !ok {
		return ErrRecipientOffline
	}
	return sendJSON(conn, message(text))
}

// CloseAll drops every connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[domain.PlayerID]core.ChatConnection)
	h.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}
