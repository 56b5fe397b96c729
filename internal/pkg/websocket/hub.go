package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event is one server-pushed message
type Event struct {
	// Type of event, e.g. "notice.created"
	Type string `json:"type"`

	// Payload of the event
	Data interface{} `json:"data"`

	// Timestamp when the event was published
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts events to them.
// The client set is owned by the Run goroutine.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	// Number of connected clients, readable from any goroutine
	countMu sync.RWMutex
	count   int

	listenersMu sync.RWMutex
	listeners   []chan *Event

	now    func() time.Time
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
		logger:     logger.With().Str("component", "ws-hub").Logger(),
	}
}

// Run handles registrations and broadcasts until Close is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			h.logger.Debug().Str("principal", client.principalID).Msg("Client registered")

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-h.done:
			for client := range h.clients {
				h.removeClient(client)
			}
			return
		}
	}
}

// Close stops the hub and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.setCount(len(h.clients))
	h.logger.Debug().Str("principal", client.principalID).Msg("Client unregistered")
}

func (h *Hub) broadcastEvent(event *Event) {
	h.notifyListeners(event)

	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event for broadcast")
		return
	}

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer; drop it rather than stall everyone else
			h.removeClient(client)
		}
	}

	h.logger.Debug().Str("type", event.Type).Int("clientCount", len(h.clients)).Msg("Event broadcasted")
}

func (h *Hub) notifyListeners(event *Event) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Msg("Skipped slow event listener")
		}
	}
}

// Publish queues an event for every connected client. It is a no-op once the hub is closed.
func (h *Hub) Publish(eventType string, data interface{}) {
	event := &Event{Type: eventType, Data: data, Timestamp: h.now().UTC()}
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

// AddListener registers a channel that receives every published event
func (h *Hub) AddListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes a listener from the hub
func (h *Hub) RemoveListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.countMu.RLock()
	defer h.countMu.RUnlock()
	return h.count
}

func (h *Hub) setCount(n int) {
	h.countMu.Lock()
	h.count = n
	h.countMu.Unlock()
}
