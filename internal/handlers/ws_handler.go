package handlers

import (
	"log"
	"net/http"

	"match-service/internal/ws"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
)

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WsHandler struct {
	Hub *ws.Hub
}

func NewWsHandler(hub *ws.Hub) *WsHandler {
	return &WsHandler{Hub: hub}
}

// Serve upgrades the connection and starts the per-socket pumps.
// Participants are anonymous; an optional participant query parameter
// pre-binds the socket to an id before the first join frame.
func (h *WsHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := ws.NewClient(h.Hub, conn, c.Query("participant"))
	go client.WritePump()
	go client.ReadPump()
}
