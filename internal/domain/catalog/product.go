package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductStatus represents the listing status of a product
type ProductStatus string

const (
	ProductStatusPendingApproval ProductStatus = "pendingApproval"
	ProductStatusApproved        ProductStatus = "approved"
	ProductStatusRejected        ProductStatus = "rejected"
	ProductStatusInactive        ProductStatus = "inactive"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusPendingApproval, ProductStatusApproved, ProductStatusRejected, ProductStatusInactive:
		return true
	}
	return false
}

// ProductImage is a gallery image belonging to a product
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// ProductVariant is a sellable variation of a product, such as a size or color
type ProductVariant struct {
	shared.BaseEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	SKU       string          `gorm:"type:varchar(64)"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// Product represents a seller listing. New listings start pending approval
// and are hidden from the storefront until an admin approves them.
type Product struct {
	shared.BaseAggregateRoot
	SellerID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	CategoryID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name         string           `gorm:"type:varchar(255);not null"`
	Description  string           `gorm:"type:text"`
	BasePrice    decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	GSTRate      decimal.Decimal  `gorm:"type:numeric(5,2);not null;default:0"`
	Customizable bool             `gorm:"not null;default:false"`
	Status       ProductStatus    `gorm:"type:varchar(32);not null;index"`
	Images       []ProductImage   `gorm:"foreignKey:ProductID"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product pending approval
func NewProduct(sellerID, categoryID uuid.UUID, name, description string, basePrice decimal.Decimal) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		CategoryID:        categoryID,
		Name:              name,
		Description:       description,
		BasePrice:         basePrice,
		GSTRate:           decimal.Zero,
		Status:            ProductStatusPendingApproval,
	}, nil
}

// Update updates the product's basic information.
// An approved product goes back to pending approval after edits.
func (p *Product) Update(name, description string, basePrice decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if basePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.BasePrice = basePrice
	if p.Status == ProductStatusApproved {
		p.Status = ProductStatusPendingApproval
	}
	p.UpdatedAt = time.Now()

	return nil
}

// SetGSTRate sets the tax rate applied at checkout, as a percentage
func (p *Product) SetGSTRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_GST_RATE", "GST rate must be between 0 and 100")
	}

	p.GSTRate = rate
	p.UpdatedAt = time.Now()

	return nil
}

// SetCustomizable marks whether buyers may attach a design file
func (p *Product) SetCustomizable(customizable bool) {
	p.Customizable = customizable
	p.UpdatedAt = time.Now()
}

// MoveToCategory moves the product to another category
func (p *Product) MoveToCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}

	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()

	return nil
}

// Approve makes the listing visible on the storefront
func (p *Product) Approve() error {
	if p.Status == ProductStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Product is already approved")
	}

	p.Status = ProductStatusApproved
	p.UpdatedAt = time.Now()

	return nil
}

// Reject declines a pending listing
func (p *Product) Reject() error {
	if p.Status != ProductStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATE", "Only pending products can be rejected")
	}

	p.Status = ProductStatusRejected
	p.UpdatedAt = time.Now()

	return nil
}

// Deactivate takes the listing off the storefront
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()

	return nil
}

// IsApproved returns true if the product is visible on the storefront
func (p *Product) IsApproved() bool {
	return p.Status == ProductStatusApproved
}

// AddImage appends a gallery image
func (p *Product) AddImage(url string) (*ProductImage, error) {
	if url == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image URL cannot be empty")
	}

	image := ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		URL:        url,
		SortOrder:  len(p.Images),
	}
	p.Images = append(p.Images, image)
	p.UpdatedAt = time.Now()

	return &p.Images[len(p.Images)-1], nil
}

// RemoveImage removes a gallery image by ID
func (p *Product) RemoveImage(imageID uuid.UUID) error {
	for idx, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:idx], p.Images[idx+1:]...)
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("IMAGE_NOT_FOUND", "Product image not found")
}

// AddVariant adds a sellable variant
func (p *Product) AddVariant(name, sku string, price decimal.Decimal, stock int) (*ProductVariant, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
	}
	for _, v := range p.Variants {
		if v.Name == name {
			return nil, shared.NewDomainError("DUPLICATE_VARIANT", "Variant name already exists for this product")
		}
	}

	variant := ProductVariant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Name:       name,
		SKU:        sku,
		Price:      price,
		Stock:      stock,
	}
	p.Variants = append(p.Variants, variant)
	p.UpdatedAt = time.Now()

	return &p.Variants[len(p.Variants)-1], nil
}

// UpdateVariantStock sets the stock level of a variant
func (p *Product) UpdateVariantStock(variantID uuid.UUID, stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
	}

	for idx := range p.Variants {
		if p.Variants[idx].ID == variantID {
			p.Variants[idx].Stock = stock
			p.Variants[idx].UpdatedAt = time.Now()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
}

// RemoveVariant removes a variant by ID
func (p *Product) RemoveVariant(variantID uuid.UUID) error {
	for idx, v := range p.Variants {
		if v.ID == variantID {
			p.Variants = append(p.Variants[:idx], p.Variants[idx+1:]...)
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
}

// GetVariant returns a variant by its ID
func (p *Product) GetVariant(variantID uuid.UUID) *ProductVariant {
	for idx := range p.Variants {
		if p.Variants[idx].ID == variantID {
			return &p.Variants[idx]
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}
