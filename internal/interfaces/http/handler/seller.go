package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/storefront/backend/internal/application/partner"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SellerHandler handles seller API endpoints
type SellerHandler struct {
	BaseHandler
	sellerService *partnerapp.SellerService
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(sellerService *partnerapp.SellerService) *SellerHandler {
	return &SellerHandler{sellerService: sellerService}
}

// Register opens a seller account for the authenticated user
func (h *SellerHandler) Register(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req partnerapp.RegisterSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.UserID = userID

	seller, err := h.sellerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, seller)
}

// GetByID retrieves a seller by its ID
func (h *SellerHandler) GetByID(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid seller ID format")
		return
	}

	seller, err := h.sellerService.GetByID(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, seller)
}

// Me retrieves the seller account of the authenticated user
func (h *SellerHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	seller, err := h.sellerService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, seller)
}

// List retrieves a paginated list of sellers
func (h *SellerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if approved := c.Query("isApproved"); approved != "" {
		filter.Filters["is_approved"] = approved == "true"
	}

	sellers, total, err := h.sellerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sellers, total, filter.Page, filter.PageSize)
}

// ListPendingApproval retrieves sellers awaiting approval, oldest first
func (h *SellerHandler) ListPendingApproval(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sellers, err := h.sellerService.ListPendingApproval(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sellers)
}

// Update updates a seller's storefront details
func (h *SellerHandler) Update(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid seller ID format")
		return
	}

	var req partnerapp.UpdateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	seller, err := h.sellerService.Update(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, seller)
}

// SetPayoutDetails records where a seller's earnings are paid out
func (h *SellerHandler) SetPayoutDetails(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid seller ID format")
		return
	}

	var req partnerapp.SetPayoutDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	seller, err := h.sellerService.SetPayoutDetails(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, seller)
}

// Approve grants or revokes a seller's approval
func (h *SellerHandler) Approve(c *gin.Context) {
	var req partnerapp.ApproveSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	seller, err := h.sellerService.SetApproval(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, seller)
}
