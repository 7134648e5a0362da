package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	csvimport "github.com/storefront/backend/internal/infrastructure/import"
)

// maxImportRows bounds a single CSV import batch.
const maxImportRows = 1000

// ProductService handles product listing operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	storage      apptrade.ObjectStorage
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository, storage apptrade.ObjectStorage, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Create creates a new product listing pending approval
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.SellerID, req.CategoryID, req.Name, req.Description, req.BasePrice)
	if err != nil {
		return nil, err
	}

	if req.GSTRate != nil {
		if err := product.SetGSTRate(*req.GSTRate); err != nil {
			return nil, err
		}
	}
	product.SetCustomizable(req.Customizable)

	for _, url := range req.Images {
		if _, err := product.AddImage(url); err != nil {
			return nil, err
		}
	}

	for _, v := range req.Variants {
		if _, err := product.AddVariant(v.Name, v.SKU, v.Price, v.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", product.SellerID.String()))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListBySeller retrieves a seller's products
func (s *ProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// ListByCategory retrieves approved products in a category
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindByCategory(ctx, categoryID, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update updates a product; approved listings go back to review
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.BasePrice); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		if err := product.MoveToCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Approve makes a product visible on the storefront
func (s *ProductService) Approve(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Approve(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product approved", zap.String("product_id", product.ID.String()))

	response := ToProductResponse(product)
	return &response, nil
}

// Reject declines a pending product listing
func (s *ProductService) Reject(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Reject(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UploadImage stores a product image and attaches it to the listing
func (s *ProductService) UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := productImageKey(id, filename)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	if _, err := product.AddImage(url); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// productImportRules describe the expected CSV columns for bulk imports.
// The category column is matched against category names.
func productImportRules() []csvimport.FieldRule {
	zero := decimal.Zero
	hundred := decimal.NewFromInt(100)
	return []csvimport.FieldRule{
		csvimport.Field("name").Required().String().Length(3, 255).Build(),
		csvimport.Field("description").String().Build(),
		csvimport.Field("category").Required().String().Reference("category").Build(),
		csvimport.Field("base_price").Required().Decimal().MinValue(zero).Build(),
		csvimport.Field("gst_rate").Decimal().Range(zero, hundred).Build(),
		csvimport.Field("customizable").Bool().Build(),
	}
}

// ImportProducts bulk-creates product listings from a CSV upload.
// Valid rows become pending listings just like single submissions,
// invalid rows are reported back per row without failing the batch.
func (s *ProductService) ImportProducts(ctx context.Context, sellerID uuid.UUID, filename string, size int64, body io.Reader) (*ImportProductsResult, error) {
	session := csvimport.NewImportSession(sellerID, sellerID, csvimport.EntityProducts, filepath.Base(filename), size)

	categories := make(map[string]uuid.UUID)
	processor := csvimport.NewImportProcessor(
		csvimport.WithMaxRows(maxImportRows),
		csvimport.WithReferenceLookup(func(refType, value string) (bool, error) {
			if refType != "category" {
				return false, nil
			}
			category, err := s.categoryRepo.FindByName(ctx, value)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			categories[value] = category.ID
			return true, nil
		}),
	)

	result, rows, err := processor.ValidateRows(ctx, session, body, productImportRules())
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE", err.Error())
	}

	created := 0
	for _, row := range rows {
		categoryID := categories[row.Get("category")]
		basePrice, err := decimal.NewFromString(row.Get("base_price"))
		if err != nil {
			continue
		}

		product, err := catalog.NewProduct(sellerID, categoryID, row.Get("name"), row.Get("description"), basePrice)
		if err != nil {
			continue
		}

		if raw := row.Get("gst_rate"); raw != "" {
			rate, err := decimal.NewFromString(raw)
			if err == nil {
				if err := product.SetGSTRate(rate); err != nil {
					continue
				}
			}
		}
		if raw := row.Get("customizable"); raw != "" {
			customizable, err := strconv.ParseBool(raw)
			if err == nil {
				product.SetCustomizable(customizable)
			}
		}

		if err := s.productRepo.Save(ctx, product); err != nil {
			return nil, err
		}
		created++
	}

	importResult := &ImportProductsResult{
		SessionID: session.ID,
		FileName:  session.FileName,
		TotalRows: result.TotalRows,
		Created:   created,
		ErrorRows: result.ErrorRows,
	}
	for _, rowErr := range result.Errors {
		importResult.Errors = append(importResult.Errors, ImportRowError{
			Row:     rowErr.Row,
			Column:  rowErr.Column,
			Code:    rowErr.Code,
			Message: rowErr.Message,
		})
	}

	s.logger.Info("product import finished",
		zap.String("seller_id", sellerID.String()),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("created", created),
		zap.Int("error_rows", result.ErrorRows))

	return importResult, nil
}

// Delete removes a product listing
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func productImageKey(productID uuid.UUID, filename string) string {
	base := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	return fmt.Sprintf("products/%s/%d-%s", productID, time.Now().Unix(), base)
}
