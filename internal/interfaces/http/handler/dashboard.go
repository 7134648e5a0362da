package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reportapp "github.com/storefront/backend/internal/application/report"
)

// DashboardHandler handles dashboard analytics API endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats retrieves platform-wide dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetSellerStats retrieves dashboard statistics scoped to one seller
func (h *DashboardHandler) GetSellerStats(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("sellerId"))
	if err != nil {
		h.BadRequest(c, "Invalid seller ID format")
		return
	}

	stats, err := h.dashboardService.GetSellerStats(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// InvalidateStats drops the cached dashboard statistics so the next
// fetch recomputes them
func (h *DashboardHandler) InvalidateStats(c *gin.Context) {
	if err := h.dashboardService.InvalidateStats(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
