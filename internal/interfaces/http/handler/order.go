package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order and order-item lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListSellerOrders retrieves a seller's order items together with
// per-status counts. Counts are computed from the seller's full item
// set on every call, independent of the page requested.
func (h *OrderHandler) ListSellerOrders(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("sellerId"))
	if err != nil {
		h.BadRequest(c, "Invalid seller ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	orders, err := h.orderService.ListSellerOrders(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// ListOrders retrieves order items across all sellers
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// GetOrderItem retrieves a single order item with its refund breakdown
func (h *OrderHandler) GetOrderItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID format")
		return
	}

	item, err := h.orderService.GetOrderItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// UpdateStatus moves an order item to a new lifecycle status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID format")
		return
	}

	var req tradeapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.orderService.UpdateStatus(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Cancel cancels an order item, with or without a refund
func (h *OrderHandler) Cancel(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID format")
		return
	}

	var req tradeapp.CancelOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.orderService.Cancel(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// RequestCancellation records a customer cancellation request on a
// shipped item
func (h *OrderHandler) RequestCancellation(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID format")
		return
	}

	var req tradeapp.RequestCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.orderService.RequestCancellation(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ResolveCancellation approves or rejects a pending cancellation request
func (h *OrderHandler) ResolveCancellation(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID format")
		return
	}

	var req tradeapp.ResolveCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.orderService.ResolveCancellation(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// AttachDesign uploads a custom design file and attaches it to an
// order item, marking the item delivered
func (h *OrderHandler) AttachDesign(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing design file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	item, err := h.orderService.AttachDesign(c.Request.Context(), itemID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// DetachDesign removes the design from an order item and returns it
// to pending
func (h *OrderHandler) DetachDesign(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID format")
		return
	}

	item, err := h.orderService.DetachDesign(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}
