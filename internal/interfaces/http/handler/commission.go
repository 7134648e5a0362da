package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/storefront/backend/internal/application/billing"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CommissionHandler handles platform commission API endpoints
type CommissionHandler struct {
	BaseHandler
	commissionService *billingapp.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *billingapp.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// Set creates or updates the commission rate for a category. A request
// without a category ID targets the platform default rate.
func (h *CommissionHandler) Set(c *gin.Context) {
	var req billingapp.SetCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	commission, err := h.commissionService.Set(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// List retrieves every configured commission rate
func (h *CommissionHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	commissions, err := h.commissionService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commissions)
}

// GetEffectiveRate resolves the rate that applies to a category, falling
// back to the platform default when no override exists
func (h *CommissionHandler) GetEffectiveRate(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	commission, err := h.commissionService.GetEffectiveRate(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// ComputeFee computes the platform fee for a subtotal in a category
func (h *CommissionHandler) ComputeFee(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	subtotal, err := decimal.NewFromString(c.Query("subtotal"))
	if err != nil {
		h.BadRequest(c, "Invalid subtotal")
		return
	}

	fee, err := h.commissionService.ComputeFee(c.Request.Context(), categoryID, subtotal)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fee)
}

// Delete removes a category commission override
func (h *CommissionHandler) Delete(c *gin.Context) {
	commissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}

	if err := h.commissionService.Delete(c.Request.Context(), commissionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
