package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNew(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestCreateOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	items := []model.OrderItem{
		{Name: "Burger", Quantity: 2},
		{Name: "Fries", Quantity: 1},
	}

	before := time.Now().UTC().Add(-time.Second)
	order, err := store.CreateOrder(ctx, "Table 1", items)
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, "Table 1", order.Table)
	assert.Equal(t, items, order.Items)
	assert.False(t, order.CreatedAt.IsZero())
	assert.True(t, order.CreatedAt.After(before))
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	order, err := store.CreateOrder(ctx, "Table 2", nil)
	require.NoError(t, err)
	assert.NotNil(t, order.Items)
	assert.Empty(t, order.Items)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.NotNil(t, orders[0].Items)
	assert.Empty(t, orders[0].Items)
}

func TestCreateOrder_MonotonicIDs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		order, err := store.CreateOrder(ctx, "Table 3", nil)
		require.NoError(t, err)
		assert.Greater(t, order.ID, last)
		last = order.ID
	}
}

func TestListOrders_Empty(t *testing.T) {
	store := setupTestStore(t)

	orders, err := store.ListOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrders_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.CreateOrder(ctx, "Table 1", []model.OrderItem{{Name: "Soup", Quantity: 1}})
	require.NoError(t, err)
	second, err := store.CreateOrder(ctx, "Table 2", []model.OrderItem{{Name: "Steak", Quantity: 2}})
	require.NoError(t, err)
	third, err := store.CreateOrder(ctx, "Table 3", nil)
	require.NoError(t, err)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, third.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
	assert.Equal(t, first.ID, orders[2].ID)

	assert.Equal(t, []model.OrderItem{{Name: "Steak", Quantity: 2}}, orders[1].Items)
	assert.Equal(t, []model.OrderItem{{Name: "Soup", Quantity: 1}}, orders[2].Items)
}

func TestListOrders_ItemsStayWithTheirOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a, err := store.CreateOrder(ctx, "Table 1", []model.OrderItem{
		{Name: "Pizza", Quantity: 1},
		{Name: "Cola", Quantity: 3},
	})
	require.NoError(t, err)
	b, err := store.CreateOrder(ctx, "Table 2", []model.OrderItem{
		{Name: "Salad", Quantity: 2},
	})
	require.NoError(t, err)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byID := map[int64]model.Order{}
	for _, o := range orders {
		byID[o.ID] = o
	}
	assert.Equal(t, []model.OrderItem{{Name: "Pizza", Quantity: 1}, {Name: "Cola", Quantity: 3}}, byID[a.ID].Items)
	assert.Equal(t, []model.OrderItem{{Name: "Salad", Quantity: 2}}, byID[b.ID].Items)
}

func TestCreateOrder_RoundTripTimestamp(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.CreateOrder(ctx, "Table 9", nil)
	require.NoError(t, err)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, created.CreatedAt.Equal(orders[0].CreatedAt))
}
