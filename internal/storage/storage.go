package storage

import (
	"context"

	"bistro/internal/model"
)

// OrderStore is the durable record of orders and their items. CreateOrder
// must commit the order row and all item rows as one atomic unit and return
// the order with its store-assigned id and timestamp; ListOrders returns all
// orders newest-first with items in insertion order.
//
// The store itself makes no serialization promise for concurrent writers;
// callers are expected to serialize writes (see service.OrderService).
type OrderStore interface {
	CreateOrder(ctx context.Context, table string, items []model.OrderItem) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	Ping(ctx context.Context) error
	Close() error
}
