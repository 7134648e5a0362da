package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateCategoryRequest creates a new category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// UpdateCategoryRequest updates an existing category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// CategoryResponse is the API view of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	SortOrder   int       `json:"sortOrder"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProductRequest creates a new product listing
type CreateProductRequest struct {
	SellerID     uuid.UUID            `json:"sellerId" binding:"required"`
	CategoryID   uuid.UUID            `json:"categoryId" binding:"required"`
	Name         string               `json:"name" binding:"required,max=255"`
	Description  string               `json:"description"`
	BasePrice    decimal.Decimal      `json:"basePrice" binding:"required"`
	GSTRate      *decimal.Decimal     `json:"gstRate"`
	Customizable bool                 `json:"customizable"`
	Images       []string             `json:"images"`
	Variants     []CreateVariantInput `json:"variants"`
}

// CreateVariantInput is a variant inside a product create request
type CreateVariantInput struct {
	Name  string          `json:"name" binding:"required,max=100"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Stock int             `json:"stock"`
}

// ImportRowError describes a single rejected CSV row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportProductsResult summarizes a bulk product import
type ImportProductsResult struct {
	SessionID uuid.UUID        `json:"sessionId"`
	FileName  string           `json:"fileName"`
	TotalRows int              `json:"totalRows"`
	Created   int              `json:"created"`
	ErrorRows int              `json:"errorRows"`
	Errors    []ImportRowError `json:"errors,omitempty"`
}

// UpdateProductRequest updates an existing product listing
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"basePrice" binding:"required"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
}

// ProductImageResponse is the API view of a product image
type ProductImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	SortOrder int       `json:"sortOrder"`
}

// ProductVariantResponse is the API view of a product variant
type ProductVariantResponse struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku,omitempty"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// ProductResponse is the API view of a product
type ProductResponse struct {
	ID           uuid.UUID                `json:"id"`
	SellerID     uuid.UUID                `json:"sellerId"`
	CategoryID   uuid.UUID                `json:"categoryId"`
	Name         string                   `json:"name"`
	Description  string                   `json:"description,omitempty"`
	BasePrice    decimal.Decimal          `json:"basePrice"`
	GSTRate      decimal.Decimal          `json:"gstRate"`
	Customizable bool                     `json:"customizable"`
	Status       string                   `json:"status"`
	Images       []ProductImageResponse   `json:"images"`
	Variants     []ProductVariantResponse `json:"variants"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// ToCategoryResponse maps a category to its API view
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses maps a slice of categories to API views
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for idx := range categories {
		responses = append(responses, ToCategoryResponse(&categories[idx]))
	}
	return responses
}

// ToProductResponse maps a product to its API view
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := make([]ProductImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ProductImageResponse{ID: img.ID, URL: img.URL, SortOrder: img.SortOrder})
	}

	variants := make([]ProductVariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, ProductVariantResponse{ID: v.ID, Name: v.Name, SKU: v.SKU, Price: v.Price, Stock: v.Stock})
	}

	return ProductResponse{
		ID:           p.ID,
		SellerID:     p.SellerID,
		CategoryID:   p.CategoryID,
		Name:         p.Name,
		Description:  p.Description,
		BasePrice:    p.BasePrice,
		GSTRate:      p.GSTRate,
		Customizable: p.Customizable,
		Status:       string(p.Status),
		Images:       images,
		Variants:     variants,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductResponses maps a slice of products to API views
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	return responses
}
