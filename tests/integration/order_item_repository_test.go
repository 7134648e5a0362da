package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
)

// TestOrderItemRepository_Integration tests the OrderItemRepository against a real PostgreSQL database
func TestOrderItemRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormOrderItemRepository(testDB.DB)
	ctx := context.Background()

	buyerID, sellerID := testDB.SeedSeller("Acme Prints")
	category := testDB.SeedCategory("Posters")
	product := testDB.SeedProduct(sellerID, category.ID, "City Skyline Poster", decimal.NewFromInt(40))
	order := testDB.SeedOrder(buyerID, decimal.NewFromInt(120))

	newItem := func(t *testing.T, qty int, price decimal.Decimal) *trade.OrderItem {
		t.Helper()
		item, err := trade.NewOrderItem(order.ID, product.ID, sellerID, qty, price)
		require.NoError(t, err)
		return item
	}

	t.Run("Save and FindByID", func(t *testing.T) {
		item := newItem(t, 2, decimal.NewFromInt(40))
		require.NoError(t, item.SetCharges(decimal.NewFromInt(5), decimal.NewFromInt(7), decimal.NewFromInt(10)))
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.Equal(t, trade.OrderItemStatusPending, found.Status)
		assert.True(t, found.PriceAtPurchase.Equal(decimal.NewFromInt(40)))
		assert.True(t, found.GSTAmount.Equal(decimal.NewFromInt(7)))
	})

	t.Run("FindByID not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Status transition survives a save round trip", func(t *testing.T) {
		item := newItem(t, 1, decimal.NewFromInt(25))
		require.NoError(t, repo.Save(ctx, item))

		require.NoError(t, item.TransitionTo(trade.OrderItemStatusShipped))
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderItemStatusShipped, found.Status)

		require.NoError(t, found.TransitionTo(trade.OrderItemStatusDelivered))
		require.NoError(t, repo.Save(ctx, found))

		again, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderItemStatusDelivered, again.Status)
	})

	t.Run("CountBySeller buckets by status", func(t *testing.T) {
		require.NoError(t, testDB.DB.Exec("DELETE FROM order_items").Error)

		pending := newItem(t, 1, decimal.NewFromInt(10))
		require.NoError(t, repo.Save(ctx, pending))

		shipped := newItem(t, 1, decimal.NewFromInt(10))
		require.NoError(t, shipped.TransitionTo(trade.OrderItemStatusShipped))
		require.NoError(t, repo.Save(ctx, shipped))

		requested := newItem(t, 1, decimal.NewFromInt(10))
		require.NoError(t, requested.RequestCancellation("changed my mind"))
		require.NoError(t, repo.Save(ctx, requested))

		cancelled := newItem(t, 1, decimal.NewFromInt(10))
		require.NoError(t, cancelled.CancelWithoutRefund("out of stock"))
		require.NoError(t, repo.Save(ctx, cancelled))

		counts, err := repo.CountBySeller(ctx, sellerID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), counts.Total)
		assert.Equal(t, int64(1), counts.Pending)
		assert.Equal(t, int64(1), counts.Shipped)
		assert.Equal(t, int64(1), counts.CancelRequested)
		assert.Equal(t, int64(1), counts.Cancelled)
		assert.Equal(t, int64(0), counts.Delivered)
	})

	t.Run("FindBySeller ignores other sellers", func(t *testing.T) {
		require.NoError(t, testDB.DB.Exec("DELETE FROM order_items").Error)

		mine := newItem(t, 1, decimal.NewFromInt(10))
		require.NoError(t, repo.Save(ctx, mine))

		otherBuyer, otherSeller := testDB.SeedSeller("Rival Goods")
		otherProduct := testDB.SeedProduct(otherSeller, category.ID, "Mountain Poster", decimal.NewFromInt(30))
		otherOrder := testDB.SeedOrder(otherBuyer, decimal.NewFromInt(30))
		theirs, err := trade.NewOrderItem(otherOrder.ID, otherProduct.ID, otherSeller, 1, decimal.NewFromInt(30))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, theirs))

		items, err := repo.FindBySeller(ctx, sellerID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, mine.ID, items[0].ID)
	})

	t.Run("FindByOrder returns all items of the order", func(t *testing.T) {
		require.NoError(t, testDB.DB.Exec("DELETE FROM order_items").Error)

		first := newItem(t, 1, decimal.NewFromInt(10))
		second := newItem(t, 2, decimal.NewFromInt(20))
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		items, err := repo.FindByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}
