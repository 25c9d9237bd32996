package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is the envelope pushed to websocket subscribers.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const MessageTypeStandingsUpdated = "STANDINGS_UPDATED"

// RoomForPeriod names the room standings subscribers of one period join.
func RoomForPeriod(periodID int) string {
	return fmt.Sprintf("period_%d", periodID)
}

// Hub fans standings updates out to websocket clients grouped into
// per-period rooms.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Info("websocket client joined room",
				slog.String("room", client.Room),
				slog.Int("clients", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.Room]; ok {
				if _, isMember := roomClients[client]; isMember {
					client.closeSend()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.logger.Info("websocket client left room", slog.String("room", client.Room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom sends a message to every client in the room; slow clients
// with a full send buffer are skipped rather than blocked on.
func (h *Hub) BroadcastToRoom(roomID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	msg.RoomID = roomID
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message",
			slog.String("room", roomID),
			slog.Any("error", err))
		return
	}

	for client := range roomClients {
		client.trySend(payload)
	}
}

// StandingsBroadcaster adapts the hub to the orchestrator's notifier
// interface.
type StandingsBroadcaster struct {
	hub *Hub
}

func NewStandingsBroadcaster(hub *Hub) *StandingsBroadcaster {
	return &StandingsBroadcaster{hub: hub}
}

func (b *StandingsBroadcaster) StandingsUpdated(periodID, playersRanked int) {
	b.hub.BroadcastToRoom(RoomForPeriod(periodID), Message{
		Type: MessageTypeStandingsUpdated,
		Payload: map[string]int{
			"period_id":      periodID,
			"players_ranked": playersRanked,
		},
	})
}
