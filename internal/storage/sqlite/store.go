package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bistro/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    table_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_table_name ON orders(table_name);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// Store is the SQLite-backed order store. The connection pool is capped at
// a single connection: SQLite allows one writer at a time, and a single
// connection also keeps ":memory:" databases coherent in tests.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the SQLite database at path and applies
// the schema. ":memory:" is accepted for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode and a generous busy timeout reduce lock errors under load.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
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

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (table_name, created_at) VALUES (?, ?)`,
		table, time.Now().UTC(),
	)
	if err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, fmt.Errorf("order id: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, name, quantity) VALUES (?, ?, ?)`,
			orderID, item.Name, item.Quantity,
		)
		if err != nil {
			return model.Order{}, fmt.Errorf("insert item: %w", err)
		}
	}

	// Read back the committed row so the caller gets exactly what a
	// subsequent list would return.
	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM orders WHERE id = ?`, orderID,
	).Scan(&createdAt)
	if err != nil {
		return model.Order{}, fmt.Errorf("read back order: %w", err)
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
