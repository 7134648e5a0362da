package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Seller represents a merchant account on the marketplace. A seller is a
// registered user with a storefront; new sellers stay unapproved until an
// admin reviews them.
type Seller struct {
	shared.BaseAggregateRoot
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	StoreName        string    `gorm:"type:varchar(255);not null"`
	StoreDescription string    `gorm:"type:text"`
	UPIID            string    `gorm:"type:varchar(100)"`
	BankAccount      string    `gorm:"type:varchar(64)"`
	IFSCCode         string    `gorm:"type:varchar(16)"`
	IsApproved       bool      `gorm:"not null;default:false"`
	ApprovedAt       *time.Time
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates a new unapproved seller for a user
func NewSeller(userID uuid.UUID, storeName, storeDescription string) (*Seller, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if storeName == "" {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	if len(storeName) > 255 {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot exceed 255 characters")
	}

	return &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		StoreName:         storeName,
		StoreDescription:  storeDescription,
		IsApproved:        false,
	}, nil
}

// UpdateStore updates the storefront details
func (s *Seller) UpdateStore(storeName, storeDescription string) error {
	if storeName == "" {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}

	s.StoreName = storeName
	s.StoreDescription = storeDescription
	s.UpdatedAt = time.Now()

	return nil
}

// SetPayoutDetails records where seller earnings are paid out
func (s *Seller) SetPayoutDetails(upiID, bankAccount, ifscCode string) error {
	if upiID == "" && bankAccount == "" {
		return shared.NewDomainError("INVALID_PAYOUT", "Either UPI ID or bank account is required")
	}
	if bankAccount != "" && ifscCode == "" {
		return shared.NewDomainError("INVALID_PAYOUT", "IFSC code is required with a bank account")
	}

	s.UPIID = upiID
	s.BankAccount = bankAccount
	s.IFSCCode = ifscCode
	s.UpdatedAt = time.Now()

	return nil
}

// SetApproval grants or revokes the seller's ability to list products
func (s *Seller) SetApproval(approved bool) {
	s.IsApproved = approved
	now := time.Now()
	if approved {
		s.ApprovedAt = &now
	} else {
		s.ApprovedAt = nil
	}
	s.UpdatedAt = now
}
