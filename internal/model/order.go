package model

import (
	"time"
)

// Order is a single placed order tied to a table. Orders are immutable
// after creation; ID and CreatedAt are assigned by the store at insert time.
type Order struct {
	ID        int64       `json:"id"`
	Table     string      `json:"table"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is one menu line within an order. Items belong to exactly one
// order and have no identity of their own.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
