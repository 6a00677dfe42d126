package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/GuessWho/internal/core"
	"github.com/dkeye/GuessWho/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

type session struct {
	id   domain.PlayerID
	name string
}

func (ctl *ChatWSController) writePump(ctx context.Context, c *WsChatConn) {
	var ping <-chan time.Time
	if ctl.pingPeriod > 0 {
		ticker := time.NewTicker(ctl.pingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "adapters.chat").Str("conn_id", c.id).Msg("writePump ctx done")
			return
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "adapters.chat").Str("conn_id", c.id).Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "adapters.chat").Str("conn_id", c.id).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.chat").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.chat").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *ChatWSController) readPump(ctx context.Context, cancel context.CancelFunc, s session, c *WsChatConn) {
	defer func() {
		log.Info().Str("module", "adapters.chat").Int64("player", int64(s.id)).Str("conn_id", c.id).Msg("readPump closing")
		if ctl.Hub.Unbind(s.id, c) {
			ctl.Limiter.Forget(s.id)
		}
		c.Close()
		cancel()
	}()

	if ctl.pingPeriod > 0 {
		pongWait := ctl.pingPeriod * 10 / 9
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "adapters.chat").Int64("player", int64(s.id)).Msg("readPump read error")
				}
				return
			}
			s = ctl.handleFrame(ctx, s, c, data)
		}
	}
}

// handleFrame returns the session, possibly renamed by the frame.
func (ctl *ChatWSController) handleFrame(ctx context.Context, s session, c core.ChatConnection, data []byte) session {
	var in inFrame
	if err := json.Unmarshal(data, &in); err != nil {
		log.Warn().Err(err).Str("module", "adapters.chat").Msg("bad json")
		_ = sendJSON(c, failure("bad_payload"))
		return s
	}

	switch in.Type {
	case framePing:
		_ = sendJSON(c, struct {
			Type string `json:"type"`
		}{Type: framePong})
	case frameCommand:
		if in.Name != "" {
			s.name = in.Name
		}
		if !ctl.Limiter.Allow(s.id) {
			_ = sendJSON(c, failure("rate_limited"))
			return s
		}
		reply := ctl.Orch.DispatchText(ctx, core.Caller{ID: s.id, Username: s.name}, in.Text)
		if err := sendJSON(c, message(reply)); err != nil {
			log.Warn().Err(err).Str("module", "adapters.chat").Int64("player", int64(s.id)).Msg("reply dropped")
		}
	default:
		log.Warn().Str("module", "adapters.chat").Str("type", in.Type).Msg("unknown frame")
		_ = sendJSON(c, failure("unknown_type"))
	}
	return s
}
