package repository

import (
	"context"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create creates a new supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// GetByID retrieves a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// CheckTaxIDExists checks if another supplier is registered with the tax id
func (r *SupplierRepository) CheckTaxIDExists(ctx context.Context, taxID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Supplier{}).
		Where("tax_id = ? AND id <> ?", taxID, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update updates a supplier
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete soft deletes a supplier
func (r *SupplierRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id).Error
}

// GetAll returns suppliers with search and pagination
func (r *SupplierRepository) GetAll(ctx context.Context, page, pageSize int, search string) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Supplier{})
	if search != "" {
		query = query.Where("name ILIKE ? OR tax_id ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("name ASC").Offset(utils.CalculateOffset(page, pageSize)).Limit(pageSize).Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}
