package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/storyhub/internal/middleware"
	"github.com/storyhub/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin browser clients are expected; auth happens via token
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FeedHandler upgrades authenticated clients onto the live story feed
type FeedHandler struct {
	hub *ws.Hub
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(hub *ws.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// Live upgrades the connection and attaches it to the hub. Each newly
// published story is pushed as one JSON message.
// GET /api/auth/feed/live?token=<jwt>
func (h *FeedHandler) Live(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middleware.LogError("websocket upgrade failed: %v", err)
		return
	}

	ws.NewClient(h.hub, conn)
}

// RegisterRoutes registers the live feed route
func (h *FeedHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.GET("/feed/live", authMiddleware, h.Live)
}
