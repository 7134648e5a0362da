package trade

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderService handles order item lifecycle operations for the seller and
// admin dashboards.
type OrderService struct {
	itemRepo    trade.OrderItemRepository
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	storage     ObjectStorage
	refunds     RefundGateway
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	itemRepo trade.OrderItemRepository,
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	storage ObjectStorage,
	refunds RefundGateway,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		itemRepo:    itemRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storage:     storage,
		refunds:     refunds,
		logger:      logger,
	}
}

// ListSellerOrders retrieves a seller's order items together with their
// per-status counts. The counts are computed fresh on every call, never
// read from a stored column.
func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (*SellerOrdersResponse, error) {
	items, err := s.itemRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}

	counts, err := s.itemRepo.CountBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, s.enrich(ctx, &items[idx]))
	}

	return &SellerOrdersResponse{Items: responses, Counts: counts}, nil
}

// ListOrders retrieves all order items for the admin dashboard with
// platform-wide status counts.
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) (*SellerOrdersResponse, error) {
	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts, err := s.itemRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, s.enrich(ctx, &items[idx]))
	}

	return &SellerOrdersResponse{Items: responses, Counts: counts}, nil
}

// GetOrderItem retrieves a single order item with its order and product context
func (s *OrderService) GetOrderItem(ctx context.Context, itemID uuid.UUID) (*OrderItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	response := s.enrich(ctx, item)
	return &response, nil
}

// UpdateStatus moves an order item to a new fulfillment status
func (s *OrderService) UpdateStatus(ctx context.Context, itemID uuid.UUID, req UpdateStatusRequest) (*OrderItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.TransitionTo(trade.OrderItemStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("order item status updated",
		zap.String("item_id", item.ID.String()),
		zap.String("status", item.Status.String()))

	response := s.enrich(ctx, item)
	return &response, nil
}

// Cancel cancels an order item. withRefund cancellations refund either the
// requested amount or, when none is given, the full refundable amount;
// withoutRefund cancellations keep the money.
func (s *OrderService) Cancel(ctx context.Context, itemID uuid.UUID, req CancelOrderItemRequest) (*OrderItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	switch req.CancelType {
	case CancelTypeWithoutRefund:
		if err := item.CancelWithoutRefund(req.Reason); err != nil {
			return nil, err
		}

	case CancelTypeWithRefund:
		// Guard before the gateway call so a rejected cancel never moves money.
		if err := item.CheckCancellable(req.Reason); err != nil {
			return nil, err
		}

		breakdown := item.Refund()
		if breakdown.Overrefunded {
			s.logger.Warn("recorded refunds exceed item subtotal, clamping refundable to zero",
				zap.String("item_id", item.ID.String()),
				zap.String("subtotal", breakdown.Subtotal.String()),
				zap.String("already_refunded", breakdown.AlreadyRefunded.String()))
		}

		amount := breakdown.Refundable
		if req.RefundAmount != nil {
			amount = *req.RefundAmount
		}

		if err := s.issueRefund(ctx, item, amount, req.Reason); err != nil {
			return nil, err
		}

		if err := item.CancelWithRefund(req.Reason, amount); err != nil {
			return nil, err
		}

	default:
		return nil, shared.NewDomainError("INVALID_CANCEL_TYPE", "Cancel type must be withRefund or withoutRefund")
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("order item cancelled",
		zap.String("item_id", item.ID.String()),
		zap.String("cancel_type", req.CancelType),
		zap.String("refunded_amount", item.RefundedAmount.String()))

	response := s.enrich(ctx, item)
	return &response, nil
}

// RequestCancellation records a buyer's cancellation request on an item
func (s *OrderService) RequestCancellation(ctx context.Context, itemID uuid.UUID, req RequestCancellationRequest) (*OrderItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.RequestCancellation(req.Reason); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := s.enrich(ctx, item)
	return &response, nil
}

// ResolveCancellation approves or rejects a pending cancellation request.
// Approval cancels the item; rejection restores the status it held before
// the request.
func (s *OrderService) ResolveCancellation(ctx context.Context, itemID uuid.UUID, req ResolveCancellationRequest) (*OrderItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !item.IsCancelRequested() {
		return nil, shared.NewDomainError("NO_PENDING_REQUEST", "Order item has no pending cancellation request")
	}

	reason := item.CancelReason

	if !req.Approve {
		if err := item.RejectCancellationRequest(); err != nil {
			return nil, err
		}
	} else if req.WithRefund {
		if err := item.CheckCancellable(reason); err != nil {
			return nil, err
		}
		amount := item.Refund().Refundable
		if req.RefundAmount != nil {
			amount = *req.RefundAmount
		}
		if err := s.issueRefund(ctx, item, amount, reason); err != nil {
			return nil, err
		}
		if err := item.CancelWithRefund(reason, amount); err != nil {
			return nil, err
		}
	} else {
		if err := item.CancelWithoutRefund(reason); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := s.enrich(ctx, item)
	return &response, nil
}

// AttachDesign uploads a customization file and attaches it to the item,
// marking it delivered.
func (s *OrderService) AttachDesign(ctx context.Context, itemID uuid.UUID, filename, contentType string, body io.Reader) (*OrderItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status.IsTerminal() || item.IsCancelRequested() {
		return nil, trade.NewInvalidTransitionError(item.Status, trade.OrderItemStatusDelivered)
	}

	key := designObjectKey(filename)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	if err := item.AttachDesign(url); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("design attached to order item",
		zap.String("item_id", item.ID.String()),
		zap.String("key", key))

	response := s.enrich(ctx, item)
	return &response, nil
}

// DetachDesign clears the design reference and returns the item to pending.
// The uploaded object stays in storage so the link can be restored.
func (s *OrderService) DetachDesign(ctx context.Context, itemID uuid.UUID) (*OrderItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.DetachDesign(); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := s.enrich(ctx, item)
	return &response, nil
}

// issueRefund sends money back through the payment gateway and records the
// refund on the parent order. Zero-amount refunds skip the gateway.
func (s *OrderService) issueRefund(ctx context.Context, item *trade.OrderItem, amount decimal.Decimal, reason string) error {
	if amount.IsNegative() || amount.GreaterThan(item.Refund().Refundable) {
		return trade.NewInvalidRefundAmountError(amount, item.Refund().Refundable)
	}
	if amount.IsZero() {
		return nil
	}

	order, err := s.orderRepo.FindByID(ctx, item.OrderID)
	if err != nil {
		return err
	}
	if !order.IsPaid() {
		return shared.NewDomainError("ORDER_NOT_PAID", "Cannot refund an unpaid order")
	}

	refundID, err := s.refunds.Refund(ctx, order.PaymentRefID, amount, reason)
	if err != nil {
		return err
	}

	full := amount.Equal(item.Refund().Refundable) && len(order.Items) <= 1
	if err := order.RecordRefund(full); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	s.logger.Info("refund issued",
		zap.String("order_id", order.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("refund_id", refundID),
		zap.String("amount", amount.String()))

	return nil
}

// enrich attaches the order and product context to an item response.
// Lookup failures degrade to a bare item rather than failing the listing.
func (s *OrderService) enrich(ctx context.Context, item *trade.OrderItem) OrderItemResponse {
	response := ToOrderItemResponse(item)

	if order, err := s.orderRepo.FindByID(ctx, item.OrderID); err == nil {
		response.Order = ToOrderSummary(order)
	} else {
		s.logger.Warn("failed to load order for item",
			zap.String("item_id", item.ID.String()),
			zap.Error(err))
	}

	if product, err := s.productRepo.FindByID(ctx, item.ProductID); err == nil {
		response.Product = ToProductSummary(product)
	} else {
		s.logger.Warn("failed to load product for item",
			zap.String("item_id", item.ID.String()),
			zap.Error(err))
	}

	return response
}

// designObjectKey builds the storage key for an uploaded design file
func designObjectKey(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("designs/%d-%s", time.Now().Unix(), base)
}
