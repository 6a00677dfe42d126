package http

import (
	"context"
	"net/http"

	"github.com/dkeye/GuessWho/internal/adapters/chat"
	"github.com/dkeye/GuessWho/internal/app"
	"github.com/dkeye/GuessWho/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ConnIDMiddleware tags every request with a fresh id for log correlation.
func ConnIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(chat.ConnIDKey, id)
		c.Header("X-Connection-Id", id)
		c.Next()
	}
}

type roomView struct {
	Code        string   `json:"code"`
	Host        string   `json:"host"`
	Players     []string `json:"players"`
	PlayerCount int      `json:"player_count"`
	Status      string   `json:"status"`
}

// roomsView strips characters from the snapshot; they are never public.
func roomsView(reg *app.Registry) []roomView {
	rooms := reg.Snapshot()
	out := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		players := make([]string, 0, len(r.Members))
		for _, m := range r.Members {
			players = append(players, m.Username)
		}
		out = append(out, roomView{
			Code:        string(r.Code),
			Host:        r.HostName,
			Players:     players,
			PlayerCount: len(players),
			Status:      r.Status,
		})
	}
	return out
}

func SetupRouter(ctx context.Context, cfg *config.Config, reg *app.Registry, ctl *chat.ChatWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(ConnIDMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": roomsView(reg)})
	})
	api.GET("/ws/chat", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("conn_id", c.GetString(chat.ConnIDKey)).Msg("ws chat endpoint hit")
		ctl.HandleChat(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
