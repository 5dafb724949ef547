package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/metrics"
)

// Hub tracks alert feed subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Add registers a subscriber.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID()] = c
	metrics.AlertSubscribers.Set(float64(len(h.clients)))
}

// Remove drops a subscriber.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
	metrics.AlertSubscribers.Set(float64(len(h.clients)))
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues payload for every subscriber and returns how many accepted it.
// Subscribers with a full buffer miss the message.
func (h *Hub) Broadcast(payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, c := range h.clients {
		if c.Send(payload) {
			delivered++
		}
	}
	return delivered
}

// Run blocks until ctx is done and then disconnects every subscriber.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Close()
	}
	h.logger.Info("alert feed closed", zap.Int("subscribers", len(clients)))
}
