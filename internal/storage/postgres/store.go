package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"bistro/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGSERIAL PRIMARY KEY,
    table_name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    id BIGSERIAL PRIMARY KEY,
    order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_table_name ON orders(table_name);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// Store is the Postgres-backed order store, for deployments where the
// database outlives the single server process.
type Store struct {
	db *sql.DB
}

// New connects to the database at uri and applies the schema.
func New(uri string) (*Store, error) {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err = db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// CreateOrder inserts the order and all of its items in one transaction and
// returns the order with its generated id and timestamp.
func (s *Store) CreateOrder(ctx context.Context, table string, items []model.OrderItem) (model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		orderID   int64
		createdAt time.Time
	)
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (table_name, created_at) VALUES ($1, $2) RETURNING id, created_at`,
		table, time.Now().UTC(),
	).Scan(&orderID, &createdAt)
	if err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, name, quantity) VALUES ($1, $2, $3)`,
			orderID, item.Name, item.Quantity,
		)
		if err != nil {
			return model.Order{}, fmt.Errorf("insert item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return model.Order{}, fmt.Errorf("commit tx: %w", err)
	}

	out := make([]model.OrderItem, len(items))
	copy(out, items)

	return model.Order{
		ID:        orderID,
		Table:     table,
		Items:     out,
		CreatedAt: createdAt,
	}, nil
}

// ListOrders returns all orders newest-first, each with its items in
// insertion order.
func (s *Store) ListOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, table_name, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Table, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Items = make([]model.OrderItem, 0)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT order_id, name, quantity
		FROM order_items
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item model.OrderItem
		if err := itemRows.Scan(&orderID, &item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
