package chat

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dkeye/GuessWho/internal/app/orch"
	"github.com/dkeye/GuessWho/internal/config"
	"github.com/dkeye/GuessWho/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ChatWSController accepts chat transport connections. The transport hands
// us the player's numeric id and display name; they are not authenticated here.
type ChatWSController struct {
	Orch    *orch.Orchestrator
	Hub     *Hub
	Limiter *CommandRateLimiter

	readLimit  int64
	pingPeriod time.Duration
	sendBuffer int
}

func NewChatWSController(o *orch.Orchestrator, hub *Hub, cfg *config.Config) *ChatWSController {
	return &ChatWSController{
		Orch:       o,
		Hub:        hub,
		Limiter:    NewCommandRateLimiter(cfg.RateLimit, cfg.RateInterval),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		sendBuffer: cfg.SendBuffer,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChat upgrades the request. Pumps are bound to ctx, not to the
// request, because the request context ends when the handler returns.
func (ctl *ChatWSController) HandleChat(ctx context.Context, c *gin.Context) {
	raw, err := strconv.ParseInt(c.Query("player_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid player_id"})
		return
	}
	id := domain.PlayerID(raw)
	name := c.Query("name")
	connID := c.GetString(ConnIDKey)
	if connID == "" {
		connID = uuid.NewString()
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.chat").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := newWsChatConn(connID, ws, ctl.sendBuffer)
	if prev := ctl.Hub.Bind(id, conn); prev != nil {
		prev.Close()
	}
	log.Info().Str("module", "adapters.chat").Int64("player", raw).Str("conn_id", connID).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, session{id: id, name: name}, conn)
}

// ConnIDKey is the gin context key holding the per-request connection id.
const ConnIDKey = "conn_id"
