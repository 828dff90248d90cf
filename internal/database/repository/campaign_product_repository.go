package repository

import (
	"context"
	"errors"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"gorm.io/gorm"
)

type CampaignProductRepository struct {
	db *gorm.DB
}

func NewCampaignProductRepository(db *gorm.DB) *CampaignProductRepository {
	return &CampaignProductRepository{db: db}
}

// Create adds a product rule to a campaign
func (r *CampaignProductRepository) Create(ctx context.Context, cp *models.CampaignProduct) error {
	return r.db.WithContext(ctx).Omit("Campaign", "Product", "BranchOverrides").Create(cp).Error
}

// GetByID retrieves a campaign product with its overrides
func (r *CampaignProductRepository) GetByID(ctx context.Context, id uint) (*models.CampaignProduct, error) {
	var cp models.CampaignProduct
	err := r.db.WithContext(ctx).Preload("BranchOverrides").First(&cp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// GetByCampaignAndID retrieves a campaign product scoped to its campaign
func (r *CampaignProductRepository) GetByCampaignAndID(ctx context.Context, campaignID, id uint) (*models.CampaignProduct, error) {
	var cp models.CampaignProduct
	err := r.db.WithContext(ctx).
		Preload("BranchOverrides").
		Where("campaign_id = ? AND id = ?", campaignID, id).
		First(&cp).Error
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// CheckProductExists checks if the campaign already has a rule for the product
func (r *CampaignProductRepository) CheckProductExists(ctx context.Context, campaignID, productID, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CampaignProduct{}).
		Where("campaign_id = ? AND product_id = ? AND id <> ?", campaignID, productID, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update updates the rule columns; sold_quantity is only ever moved by IncrementSoldQuantity
func (r *CampaignProductRepository) Update(ctx context.Context, cp *models.CampaignProduct) error {
	return r.db.WithContext(ctx).Model(cp).
		Select("product_id", "discount_type", "discount_value", "max_quantity").
		Updates(cp).Error
}

// Delete soft deletes a campaign product
func (r *CampaignProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CampaignProduct{}, "id = ?", id).Error
}

// IncrementSoldQuantity adds quantity to the sold counter in one conditional
// statement. It reports false when the quota cannot take quantity more units.
func (r *CampaignProductRepository) IncrementSoldQuantity(ctx context.Context, id uint, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.CampaignProduct{}).
		Where("id = ? AND (max_quantity IS NULL OR sold_quantity + ? <= max_quantity)", id, quantity).
		UpdateColumn("sold_quantity", gorm.Expr("sold_quantity + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpsertOverride sets the discount value override of a campaign product at a branch
func (r *CampaignProductRepository) UpsertOverride(ctx context.Context, override *models.CampaignProductBranch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CampaignProductBranch
		err := tx.Where("campaign_product_id = ? AND branch_id = ?", override.CampaignProductID, override.BranchID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(override).Error
		}
		if err != nil {
			return err
		}
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Update("discount_value_override", override.DiscountValueOverride).Error
	})
}

// DeleteOverride removes the override of a campaign product at a branch
func (r *CampaignProductRepository) DeleteOverride(ctx context.Context, campaignProductID, branchID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("campaign_product_id = ? AND branch_id = ?", campaignProductID, branchID).
		Delete(&models.CampaignProductBranch{})
	return result.RowsAffected, result.Error
}
