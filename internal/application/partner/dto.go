package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/partner"
)

// RegisterSellerRequest opens a seller account for an existing user
type RegisterSellerRequest struct {
	UserID           uuid.UUID `json:"userId" binding:"required"`
	StoreName        string    `json:"storeName" binding:"required,max=255"`
	StoreDescription string    `json:"storeDescription"`
}

// UpdateSellerRequest updates a seller's storefront details
type UpdateSellerRequest struct {
	StoreName        string `json:"storeName" binding:"required,max=255"`
	StoreDescription string `json:"storeDescription"`
}

// SetPayoutDetailsRequest records where seller earnings are paid out
type SetPayoutDetailsRequest struct {
	UPIID       string `json:"upiId"`
	BankAccount string `json:"bankAccount"`
	IFSCCode    string `json:"ifscCode"`
}

// ApproveSellerRequest grants or revokes a seller's approval
type ApproveSellerRequest struct {
	SellerID   uuid.UUID `json:"sellerId" binding:"required"`
	IsApproved bool      `json:"isApproved"`
}

// SellerResponse is the API view of a seller
type SellerResponse struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"userId"`
	StoreName        string     `json:"storeName"`
	StoreDescription string     `json:"storeDescription,omitempty"`
	UPIID            string     `json:"upiId,omitempty"`
	BankAccount      string     `json:"bankAccount,omitempty"`
	IFSCCode         string     `json:"ifscCode,omitempty"`
	IsApproved       bool       `json:"isApproved"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ToSellerResponse maps a seller to its API view
func ToSellerResponse(s *partner.Seller) SellerResponse {
	return SellerResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		StoreName:        s.StoreName,
		StoreDescription: s.StoreDescription,
		UPIID:            s.UPIID,
		BankAccount:      s.BankAccount,
		IFSCCode:         s.IFSCCode,
		IsApproved:       s.IsApproved,
		ApprovedAt:       s.ApprovedAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ToSellerResponses maps a slice of sellers to API views
func ToSellerResponses(sellers []partner.Seller) []SellerResponse {
	responses := make([]SellerResponse, 0, len(sellers))
	for idx := range sellers {
		responses = append(responses, ToSellerResponse(&sellers[idx]))
	}
	return responses
}
