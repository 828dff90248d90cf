package repository

import (
	"context"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"gorm.io/gorm"
)

type PriceTierRepository struct {
	db *gorm.DB
}

func NewPriceTierRepository(db *gorm.DB) *PriceTierRepository {
	return &PriceTierRepository{db: db}
}

// Create creates a new price tier
func (r *PriceTierRepository) Create(ctx context.Context, tier *models.PriceTier) error {
	return r.db.WithContext(ctx).Create(tier).Error
}

// GetByID retrieves a price tier by ID
func (r *PriceTierRepository) GetByID(ctx context.Context, id uint) (*models.PriceTier, error) {
	var tier models.PriceTier
	err := r.db.WithContext(ctx).First(&tier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// GetByProduct lists the tiers of a product by ascending minimum quantity
func (r *PriceTierRepository) GetByProduct(ctx context.Context, productID uint) ([]models.PriceTier, error) {
	var tiers []models.PriceTier
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("min_quantity ASC").
		Find(&tiers).Error
	return tiers, err
}

// CheckMinQuantityExists checks if the product already has a tier starting at minQuantity
func (r *PriceTierRepository) CheckMinQuantityExists(ctx context.Context, productID uint, minQuantity int, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PriceTier{}).
		Where("product_id = ? AND min_quantity = ? AND id <> ?", productID, minQuantity, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update updates a price tier
func (r *PriceTierRepository) Update(ctx context.Context, tier *models.PriceTier) error {
	return r.db.WithContext(ctx).Save(tier).Error
}

// Delete soft deletes a price tier
func (r *PriceTierRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PriceTier{}, "id = ?", id).Error
}
