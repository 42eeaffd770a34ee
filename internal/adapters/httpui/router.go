// Package httpui is the presentation surface: a local HTTP API that
// renders the session snapshot and forwards user intents to the engine.
package httpui

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iaas-dront/frontend-meet2/internal/app/session"
	"github.com/iaas-dront/frontend-meet2/internal/config"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, eng *session.Engine) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MeetSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.httpui").Str("static", cfg.StaticPath).Msg("router setup")

	h := &handlers{eng: eng}
	api := r.Group("/api")
	api.GET("/session", h.snapshot)
	api.POST("/session/message", h.sendMessage)
	api.POST("/session/controls/:control", h.toggleControl)
	api.POST("/session/focus", h.focus)
	api.POST("/session/end", h.end)
	api.DELETE("/session/summary", h.dismissSummary)

	return r
}
