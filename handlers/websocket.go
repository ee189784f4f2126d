package handlers

import (
	"net/http"

	"hotel-server/handlers/response"
	"hotel-server/logger"
	"hotel-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler serves the hotel event stream to admin dashboards
type WSHandler struct {
	mgr *ws.Manager
}

func NewWSHandler(mgr *ws.Manager) *WSHandler {
	return &WSHandler{mgr: mgr}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleHotelEvents upgrades to websocket and keeps the client registered
// until it disconnects. Incoming frames are read only to detect closure.
// GET /ws/hotels?client=<id>
func (h *WSHandler) HandleHotelEvents(c *gin.Context) {
	clientID := c.Query("client")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.mgr.Register(clientID, conn)
	defer h.mgr.Unregister(clientID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("read error from dashboard", "client_id", clientID, "error", err)
			}
			return
		}
	}
}

// GetConnectedClients GET /api/dashboard/clients
func (h *WSHandler) GetConnectedClients(c *gin.Context) {
	response.OK(c, "", gin.H{"clients": h.mgr.List(), "count": h.mgr.Len()})
}
