package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/pbfed/ranking-engine/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are handled by the CORS layer in front of us.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeStandings handles GET /ws/standings?period_id=N: the client joins
// the period's room and receives STANDINGS_UPDATED pushes after re-ranks.
func (h *WebSocketHandler) ServeStandings(w http.ResponseWriter, r *http.Request) {
	periodIDStr := r.URL.Query().Get("period_id")
	periodID, err := strconv.Atoi(periodIDStr)
	if err != nil || periodID <= 0 {
		badRequestResponse(w, r, errors.New("invalid period_id query parameter"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			slog.Int("period_id", periodID),
			slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.RoomForPeriod(periodID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
