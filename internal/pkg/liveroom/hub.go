package liveroom

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of connected clients per live class room and
// broadcasts chat messages to them.
type Hub struct {
	// Registered clients organized by live class ID
	clients map[int64]map[*Client]bool

	// Channel for inbound messages from clients
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex

	logger zerolog.Logger
}

// Message is a chat message sent inside a live class room
type Message struct {
	// Type of message: "chat", "system"
	Type string `json:"type"`

	// Live class this message belongs to
	LiveClassID int64 `json:"liveClassId"`

	// User who sent the message
	SenderID int64 `json:"senderId"`

	// Display name of the sender
	SenderName string `json:"senderName,omitempty"`

	// Message content
	Content string `json:"content"`

	// Timestamp when the message was sent
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	liveClassID := client.liveClassID
	if _, ok := h.clients[liveClassID]; !ok {
		h.clients[liveClassID] = make(map[*Client]bool)
	}
	h.clients[liveClassID][client] = true

	h.logger.Info().
		Int64("liveClassID", liveClassID).
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client joined live class room")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	liveClassID := client.liveClassID
	if _, ok := h.clients[liveClassID]; ok {
		if _, ok := h.clients[liveClassID][client]; ok {
			delete(h.clients[liveClassID], client)
			close(client.send)

			// Drop empty rooms
			if len(h.clients[liveClassID]) == 0 {
				delete(h.clients, liveClassID)
			}

			h.logger.Info().
				Int64("liveClassID", liveClassID).
				Int64("userID", client.userID).
				Msg("Client left live class room")
		}
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	liveClassID := message.LiveClassID

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("liveClassID", liveClassID).
			Msg("Failed to marshal message for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[liveClassID]
	if !ok {
		h.logger.Debug().
			Int64("liveClassID", liveClassID).
			Msg("No clients in room for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, they are slow or disconnected.
			// Drop them here: this runs on the Run goroutine, the only
			// receiver of h.unregister, so sending to that channel would
			// block the hub on itself.
			delete(clients, client)
			close(client.send)
			h.logger.Warn().
				Int64("liveClassID", liveClassID).
				Int64("userID", client.userID).
				Msg("Dropped slow client from live class room")
		}
	}
	if len(clients) == 0 {
		delete(h.clients, liveClassID)
		return
	}

	h.logger.Debug().
		Int64("liveClassID", liveClassID).
		Int("clientCount", len(clients)).
		Msg("Message broadcasted to room")
}

// BroadcastToRoom sends a message to all connected clients in a live class room.
// Used by the live class service to push status changes (e.g. class went live).
func (h *Hub) BroadcastToRoom(message *Message) {
	h.broadcast <- message
}

// RoomSize returns the number of connected clients for a live class.
func (h *Hub) RoomSize(liveClassID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[liveClassID]; ok {
		return len(clients)
	}
	return 0
}
