package worker

import (
	"context"
	"log/slog"

	"bistro/internal/model"
)

// Broadcaster pushes a committed order to every live subscriber.
type Broadcaster interface {
	BroadcastNewOrder(order model.Order)
}

// Notifier decouples broadcasting from the request path: it drains the
// service's event stream and hands each committed order to the hub. A slow
// or broken subscriber is the hub's problem, never the create caller's.
type Notifier struct {
	events <-chan model.Order
	hub    Broadcaster
}

func NewNotifier(events <-chan model.Order, hub Broadcaster) *Notifier {
	return &Notifier{events: events, hub: hub}
}

func (n *Notifier) Start(ctx context.Context) {
	slog.Info("starting order notifier")
	for {
		select {
		case <-ctx.Done():
			slog.Info("order notifier stopped")
			return
		case order := <-n.events:
			n.hub.BroadcastNewOrder(order)
		}
	}
}
