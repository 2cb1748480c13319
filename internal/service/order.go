package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"bistro/internal/model"
	"bistro/internal/storage"
)

// eventBuffer bounds the queue between committed creates and the broadcast
// worker. It only fills if the worker is not running or wildly behind, in
// which case notifications are dropped rather than stalling creates.
const eventBuffer = 256

// OrderService is the single entry point for creating and listing orders.
//
// Creates are serialized by a one-permit semaphore: the underlying store
// gives no isolation guarantee for the multi-statement order+items write,
// so at most one creation transaction is ever in flight. This is a
// deliberate single-writer simplification; a multi-process deployment would
// need store-level transactions instead.
type OrderService struct {
	store  storage.OrderStore
	write  *semaphore.Weighted
	events chan model.Order
}

func NewOrderService(store storage.OrderStore) *OrderService {
	return &OrderService{
		store:  store,
		write:  semaphore.NewWeighted(1),
		events: make(chan model.Order, eventBuffer),
	}
}

// Create persists the order under the exclusive write permit and returns it
// with its store-assigned id and timestamp. On success the committed order
// is queued for broadcast; notification problems never fail the create.
func (s *OrderService) Create(ctx context.Context, table string, items []model.OrderItem) (model.Order, error) {
	if err := s.write.Acquire(ctx, 1); err != nil {
		return model.Order{}, fmt.Errorf("acquire write permit: %w", err)
	}
	defer s.write.Release(1)

	order, err := s.store.CreateOrder(ctx, table, items)
	if err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}

	// Queued while still holding the permit so notification order matches
	// commit order.
	select {
	case s.events <- order:
	default:
		slog.Warn("event queue full, notification dropped", "order_id", order.ID)
	}

	return order, nil
}

// List returns all orders newest-first. Reads take no permit.
func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Events is the stream of committed orders, in commit order. Consumed by the
// broadcast worker.
func (s *OrderService) Events() <-chan model.Order {
	return s.events
}
