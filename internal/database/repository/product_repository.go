package repository

import (
	"context"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"gorm.io/gorm"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	Search     string
	CategoryID uint
	SupplierID uint
	ActiveOnly bool
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Supplier").Create(product).Error
}

// GetByID retrieves a product by ID with its category and supplier
func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CheckSKUExists checks if another product already uses the SKU
func (r *ProductRepository) CheckSKUExists(ctx context.Context, sku string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update updates a product
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Supplier").Save(product).Error
}

// Delete soft deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// GetAll returns products matching the filter with pagination
func (r *ProductRepository) GetAll(ctx context.Context, page, pageSize int, filter ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR sku ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Category").
		Preload("Supplier").
		Order("name ASC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
