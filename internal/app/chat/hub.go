/*
Package chat contains the room relay: event formatting, fan-out routing, the per-connection
session state machine and the WebSocket transport that carries them.

This file defines the Hub, the directory of live clients keyed by connection id. It is the
relay's Transport: events are marshalled once and queued on every target's send channel
without blocking.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

// sendBufferSize is the per-client outbound queue length.
const sendBufferSize = 256

// Hub tracks live clients. It is safe for concurrent use.
type Hub struct {
	// mu protects clients and closed. Holding the read lock while enqueuing keeps send
	// channels open for the duration of a delivery.
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool

	logger zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logx.Component("hub"),
	}
}

// Register adds c. It reports false once the hub has shut down.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.clients[c.id] = c
	h.logger.Debug().Str("conn_id", c.id).Int("clients", len(h.clients)).Msg("Client registered.")
	return true
}

// Unregister removes the client with connID and closes its send queue, which stops its
// write pump. Unknown ids are ignored.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}

	delete(h.clients, connID)
	close(c.send)
	h.logger.Debug().Str("conn_id", connID).Int("clients", len(h.clients)).Msg("Client unregistered.")
}

// Deliver queues msg for every target still connected. Full queues drop the frame.
func (h *Hub) Deliver(targets []string, msg Message) {
	if len(targets) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("msg_type", string(msg.Type)).Msg("Failed to marshal event.")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range targets {
		c, ok := h.clients[id]
		if !ok {
			continue
		}

		select {
		case c.send <- data:
		default:
			h.logger.Warn().
				Str("conn_id", id).
				Str("msg_type", string(msg.Type)).
				Int("queue_len", len(c.send)).
				Msg("Client send queue full, dropping event.")
		}
	}
}

// Len returns the number of live clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every client's send queue and refuses new registrations. Each write pump
// then sends a close frame, and each read pump runs its normal disconnect path.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}

	h.logger.Info().Msg("Hub shut down.")
}
