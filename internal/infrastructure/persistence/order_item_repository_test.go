package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

func setupOrderItemTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&trade.Order{}, &trade.OrderItem{})
	require.NoError(t, err)

	return db
}

func newStoredItem(t *testing.T, repo *GormOrderItemRepository, sellerID uuid.UUID, status trade.OrderItemStatus) *trade.OrderItem {
	t.Helper()

	item, err := trade.NewOrderItem(uuid.New(), uuid.New(), sellerID, 1, decimal.NewFromInt(100))
	require.NoError(t, err)
	item.Status = status

	require.NoError(t, repo.Save(context.Background(), item))
	return item
}

func TestOrderItemRepository_SaveAndFindByID(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	item, err := trade.NewOrderItem(uuid.New(), uuid.New(), uuid.New(), 2, decimal.NewFromFloat(49.99))
	require.NoError(t, err)
	require.NoError(t, item.SetCharges(decimal.NewFromInt(5), decimal.NewFromFloat(4.50), decimal.NewFromInt(10)))

	require.NoError(t, repo.Save(ctx, item))

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, trade.OrderItemStatusPending, found.Status)
	assert.True(t, found.PriceAtPurchase.Equal(decimal.NewFromFloat(49.99)))
	assert.True(t, found.DiscountAmount.Equal(decimal.NewFromInt(5)))
}

func TestOrderItemRepository_FindByID_NotFound(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderItemRepository_Save_PersistsStatusChange(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	item := newStoredItem(t, repo, uuid.New(), trade.OrderItemStatusPending)

	require.NoError(t, item.TransitionTo(trade.OrderItemStatusShipped))
	require.NoError(t, repo.Save(ctx, item))

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderItemStatusShipped, found.Status)
}

func TestOrderItemRepository_FindBySeller(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusPending)
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusShipped)
	newStoredItem(t, repo, uuid.New(), trade.OrderItemStatusPending)

	items, err := repo.FindBySeller(ctx, sellerID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, sellerID, item.SellerID)
	}
}

func TestOrderItemRepository_FindBySeller_StatusFilter(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusPending)
	shipped := newStoredItem(t, repo, sellerID, trade.OrderItemStatusShipped)

	items, err := repo.FindBySeller(ctx, sellerID, shared.Filter{
		Page:     1,
		PageSize: 10,
		Filters:  map[string]interface{}{"status": string(trade.OrderItemStatusShipped)},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, shipped.ID, items[0].ID)
}

func TestOrderItemRepository_FindByOrder(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	for i := 0; i < 3; i++ {
		item, err := trade.NewOrderItem(orderID, uuid.New(), uuid.New(), 1, decimal.NewFromInt(25))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, item))
	}
	newStoredItem(t, repo, uuid.New(), trade.OrderItemStatusPending)

	items, err := repo.FindByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestOrderItemRepository_CountBySeller(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusPending)
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusPending)
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusShipped)
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusDelivered)
	newStoredItem(t, repo, sellerID, trade.OrderItemStatusCancelRequested)
	newStoredItem(t, repo, uuid.New(), trade.OrderItemStatusCancelled)

	counts, err := repo.CountBySeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), counts.Total)
	assert.Equal(t, int64(2), counts.Pending)
	assert.Equal(t, int64(1), counts.Shipped)
	assert.Equal(t, int64(1), counts.Delivered)
	assert.Equal(t, int64(0), counts.Cancelled)
	assert.Equal(t, int64(1), counts.CancelRequested)
}

func TestOrderItemRepository_CountBySeller_ReflectsCurrentRows(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	item := newStoredItem(t, repo, sellerID, trade.OrderItemStatusPending)

	counts, err := repo.CountBySeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Pending)

	require.NoError(t, item.TransitionTo(trade.OrderItemStatusShipped))
	require.NoError(t, repo.Save(ctx, item))

	counts, err = repo.CountBySeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Pending)
	assert.Equal(t, int64(1), counts.Shipped)
	assert.Equal(t, int64(1), counts.Total)
}

func TestOrderItemRepository_CountAll(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)
	ctx := context.Background()

	newStoredItem(t, repo, uuid.New(), trade.OrderItemStatusPending)
	newStoredItem(t, repo, uuid.New(), trade.OrderItemStatusCancelled)

	counts, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(1), counts.Pending)
	assert.Equal(t, int64(1), counts.Cancelled)
}

func TestOrderItemRepository_CountAll_Empty(t *testing.T) {
	db := setupOrderItemTestDB(t)
	repo := NewGormOrderItemRepository(db)

	counts, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trade.StatusCounts{}, counts)
}
