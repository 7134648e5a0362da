package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 5 * time.Minute

	newUserWindow    = 30 * 24 * time.Hour
	recentOrderLimit = 10
)

// UserStats summarizes registered accounts
type UserStats struct {
	Total     int64 `json:"total"`
	New       int64 `json:"new"`
	Returning int64 `json:"returning"`
}

// RecentOrder is a compact row for the dashboard order feed
type RecentOrder struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentStatus string          `json:"paymentStatus"`
	ItemCount     int             `json:"itemCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderStats summarizes order activity
type OrderStats struct {
	Total    int64              `json:"total"`
	ByStatus trade.StatusCounts `json:"byStatus"`
	Recent   []RecentOrder      `json:"recent"`
}

// SellerStats summarizes seller accounts
type SellerStats struct {
	Total           int64 `json:"total"`
	PendingApproval int64 `json:"pendingApproval"`
}

// RevenueStats summarizes platform revenue
type RevenueStats struct {
	Total decimal.Decimal `json:"total"`
}

// DashboardStatsResponse is the admin dashboard snapshot
type DashboardStatsResponse struct {
	Users       UserStats    `json:"users"`
	Orders      OrderStats   `json:"orders"`
	Sellers     SellerStats  `json:"sellers"`
	Revenue     RevenueStats `json:"revenue"`
	Categories  int64        `json:"categories"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// SellerDashboardResponse is the per-seller dashboard snapshot
type SellerDashboardResponse struct {
	Counts      trade.StatusCounts `json:"counts"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// DashboardService assembles dashboard snapshots from the domain
// repositories and caches them briefly.
type DashboardService struct {
	userRepo     identity.UserRepository
	orderRepo    trade.OrderRepository
	itemRepo     trade.OrderItemRepository
	sellerRepo   partner.SellerRepository
	categoryRepo catalog.CategoryRepository
	cache        StatsCache
	logger       *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userRepo identity.UserRepository,
	orderRepo trade.OrderRepository,
	itemRepo trade.OrderItemRepository,
	sellerRepo partner.SellerRepository,
	categoryRepo catalog.CategoryRepository,
	cache StatsCache,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		itemRepo:     itemRepo,
		sellerRepo:   sellerRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetStats returns the admin dashboard snapshot. A cached snapshot is served
// when fresh; cache failures fall through to a live computation.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStatsResponse, error) {
	if cached, found, err := s.cache.Get(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	} else if found {
		var stats DashboardStatsResponse
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
		s.logger.Warn("stats cache entry corrupt, recomputing")
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}

// GetSellerStats returns the status buckets for one seller's items. Counts
// are always computed fresh so the dashboard reflects the current rows.
func (s *DashboardService) GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerDashboardResponse, error) {
	counts, err := s.itemRepo.CountBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	return &SellerDashboardResponse{
		Counts:      counts,
		GeneratedAt: time.Now(),
	}, nil
}

// InvalidateStats drops the cached snapshot
func (s *DashboardService) InvalidateStats(ctx context.Context) error {
	return s.cache.Delete(ctx, dashboardCacheKey)
}

func (s *DashboardService) computeStats(ctx context.Context) (*DashboardStatsResponse, error) {
	totalUsers, err := s.userRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	newUsers, err := s.userRepo.CountCreatedSince(ctx, time.Now().Add(-newUserWindow))
	if err != nil {
		return nil, err
	}

	totalOrders, err := s.orderRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	byStatus, err := s.itemRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	recentOrders, err := s.orderRepo.FindRecent(ctx, recentOrderLimit)
	if err != nil {
		return nil, err
	}

	totalSellers, err := s.sellerRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	pendingSellers, err := s.sellerRepo.FindPendingApproval(ctx, shared.Filter{PageSize: 0})
	if err != nil {
		return nil, err
	}

	revenue, err := s.orderRepo.SumPaidRevenue(ctx)
	if err != nil {
		return nil, err
	}

	totalCategories, err := s.categoryRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	recent := make([]RecentOrder, len(recentOrders))
	for i := range recentOrders {
		order := &recentOrders[i]
		recent[i] = RecentOrder{
			ID:            order.ID,
			UserID:        order.UserID,
			TotalAmount:   order.TotalAmount,
			PaymentStatus: string(order.PaymentStatus),
			ItemCount:     len(order.Items),
			CreatedAt:     order.CreatedAt,
		}
	}

	returning := totalUsers - newUsers
	if returning < 0 {
		returning = 0
	}

	return &DashboardStatsResponse{
		Users: UserStats{
			Total:     totalUsers,
			New:       newUsers,
			Returning: returning,
		},
		Orders: OrderStats{
			Total:    totalOrders,
			ByStatus: byStatus,
			Recent:   recent,
		},
		Sellers: SellerStats{
			Total:           totalSellers,
			PendingApproval: int64(len(pendingSellers)),
		},
		Revenue:     RevenueStats{Total: revenue},
		Categories:  totalCategories,
		GeneratedAt: time.Now(),
	}, nil
}
