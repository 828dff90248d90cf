package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	supplierRepo *repository.SupplierRepository
}

func NewProductService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategoryRepository,
	supplierRepo *repository.SupplierRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
	}
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	if err := s.apply(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.Get(ctx, product.ID)
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

// Update replaces the product's attributes
func (s *ProductService) Update(ctx context.Context, id uint, req *models.ProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete soft deletes a product
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, page, pageSize int, filter repository.ProductFilter) ([]models.Product, int64, error) {
	return s.productRepo.GetAll(ctx, page, pageSize, filter)
}

func (s *ProductService) apply(ctx context.Context, product *models.Product, req *models.ProductRequest) error {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku == "" {
		return NewValidationError("sku", "must not be empty")
	}
	if !req.BasePrice.IsPositive() {
		return NewValidationError("base_price", "must be greater than zero")
	}
	if !req.BasePrice.Equal(req.BasePrice.Round(2)) {
		return NewValidationError("base_price", "must have at most two decimal places")
	}
	exists, err := s.productRepo.CheckSKUExists(ctx, sku, product.ID)
	if err != nil {
		return fmt.Errorf("failed to check product sku: %w", err)
	}
	if exists {
		return conflictf("product with sku '%s' already exists", sku)
	}
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if isNotFound(err) {
			return NewValidationError("category_id", "category %d does not exist", req.CategoryID)
		}
		return err
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			if isNotFound(err) {
				return NewValidationError("supplier_id", "supplier %d does not exist", *req.SupplierID)
			}
			return err
		}
	}

	product.SKU = sku
	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.SupplierID = req.SupplierID
	product.BasePrice = req.BasePrice
	product.Category = nil
	product.Supplier = nil
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	return nil
}
