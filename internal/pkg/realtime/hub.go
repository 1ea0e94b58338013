package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients, keyed by deterministic channel
// names, and fans events out to subscribers.
type Hub struct {
	// Registered clients organized by channel name
	clients map[string]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger zerolog.Logger
}

// Event is a change notification published on a channel
type Event struct {
	// Channel the event belongs to (see channel.go for the naming contract)
	Channel string `json:"channel"`

	// Kind of change: "message", "post", "event", "connection"
	Kind string `json:"kind"`

	// Payload is the resource shape the corresponding read would return
	Payload interface{} `json:"payload"`

	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.channel]; !ok {
		h.clients[client.channel] = make(map[*Client]bool)
	}
	h.clients[client.channel][client] = true

	h.logger.Info().
		Str("channel", client.channel).
		Str("userID", client.userID).
		Msg("Realtime client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if channelClients, ok := h.clients[client.channel]; ok {
		if _, ok := channelClients[client]; ok {
			delete(channelClients, client)
			close(client.send)
			if len(channelClients) == 0 {
				delete(h.clients, client.channel)
			}
			h.logger.Info().
				Str("channel", client.channel).
				Str("userID", client.userID).
				Msg("Realtime client unregistered")
		}
	}
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("channel", event.Channel).Msg("Failed to marshal realtime event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[event.Channel]
	if !ok {
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full; drop them inline. Re-entering
			// h.unregister from the hub loop itself would deadlock.
			delete(clients, client)
			close(client.send)
			h.logger.Warn().
				Str("channel", client.channel).
				Str("userID", client.userID).
				Msg("Dropped slow realtime client")
		}
	}
	if len(clients) == 0 {
		delete(h.clients, event.Channel)
	}
}

// Publish sends an event to all subscribers of its channel. Non-blocking for
// callers: publishing to a channel with no subscribers is a no-op.
func (h *Hub) Publish(channel, kind string, payload interface{}) {
	h.broadcast <- &Event{
		Channel:   channel,
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// SubscriberCount returns the number of connected clients on a channel
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[channel])
}
