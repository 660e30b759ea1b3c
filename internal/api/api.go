package api

import (
	"net/http"

	botHandler "voicebot-relay/internal/bot"
	relayHandler "voicebot-relay/internal/relay/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router       *gin.RouterGroup
	relayHandler relayHandler.Handler
	botHandler   botHandler.Handler
}

func New(router *gin.RouterGroup, relayHandler relayHandler.Handler, botHandler botHandler.Handler) API {
	return API{
		router:       router,
		relayHandler: relayHandler,
		botHandler:   botHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()

	// Voice platform webhooks and call control
	a.router.POST("/placecall", a.relayHandler.HandlePlaceCall)
	a.router.GET("/makecall", a.relayHandler.HandleMakeCall)
	a.router.GET("/answer", a.relayHandler.HandleAnswer)
	a.router.POST("/event", a.relayHandler.HandleEvent)
	a.router.POST("/asr", a.relayHandler.HandleASR)
	a.router.POST("/rtc", a.relayHandler.HandleRTC)

	// Conversational Agent callback
	a.router.POST("/botreply", a.relayHandler.HandleBotReply)

	// Built-in demo bot fulfilling the agent contract
	a.router.POST("/bot", a.botHandler.HandleBot)

	// Live call-event feed
	a.router.GET("/monitor", a.relayHandler.HandleMonitor)
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
