package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"bistro/internal/model"
)

type initialMessage struct {
	Type   string        `json:"type"`
	Orders []model.Order `json:"orders"`
}

type newOrderMessage struct {
	Type  string      `json:"type"`
	Order model.Order `json:"order"`
}

type echoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Hub tracks the live set of subscribers and fans broadcast messages out to
// all of them. A failure to deliver to one subscriber removes that
// subscriber and never affects the others or the caller.
//
// The lock only guards the set itself; actual sends go through each
// subscriber's buffered channel, so a slow peer never blocks a broadcast.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Register adds sub to the active set.
func (h *Hub) Register(sub *Subscriber) {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes sub from the active set and tears it down. Calling it
// for an already-removed subscriber is a no-op.
func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.close()
}

// Count returns the number of currently connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// BroadcastNewOrder pushes a "new_order" message to every subscriber.
func (h *Hub) BroadcastNewOrder(order model.Order) {
	payload, err := json.Marshal(newOrderMessage{Type: "new_order", Order: order})
	if err != nil {
		slog.Error("marshal new_order message", "error", err)
		return
	}
	h.broadcast(payload)
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.RLock()
	targets := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if !sub.enqueue(payload) {
			// Dead or hopelessly backed up; drop it so the set stays bounded.
			slog.Warn("dropping unresponsive subscriber", "remaining", h.Count()-1)
			h.Unregister(sub)
		}
	}
}

// Shutdown tears down every subscriber. Used at process stop.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	targets := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		targets = append(targets, sub)
	}
	h.subs = make(map[*Subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range targets {
		sub.close()
	}
}
