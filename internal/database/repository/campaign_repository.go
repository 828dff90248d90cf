package repository

import (
	"context"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign together with its branch assignments
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Omit("Products").Create(campaign).Error
}

// GetByID retrieves a campaign by ID with its products, overrides and branches
func (r *CampaignRepository) GetByID(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Products.BranchOverrides").
		Preload("Branches").
		First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Update updates the campaign's own columns
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Omit("Products", "Branches").Save(campaign).Error
}

// SetActive flips the manual on/off switch
func (r *CampaignRepository) SetActive(ctx context.Context, id uint, active bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Campaign{}).Where("id = ?", id).Update("is_active", active)
	return result.RowsAffected, result.Error
}

// Delete soft deletes a campaign
func (r *CampaignRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Campaign{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// ReplaceBranches swaps the branch assignment set of a campaign
func (r *CampaignRepository) ReplaceBranches(ctx context.Context, campaignID uint, branchIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).Delete(&models.CampaignBranch{}).Error; err != nil {
			return err
		}
		if len(branchIDs) == 0 {
			return nil
		}
		rows := make([]models.CampaignBranch, 0, len(branchIDs))
		for _, branchID := range branchIDs {
			rows = append(rows, models.CampaignBranch{CampaignID: campaignID, BranchID: branchID})
		}
		return tx.Create(&rows).Error
	})
}

// GetAll returns campaigns with search, derived status filter and pagination
func (r *CampaignRepository) GetAll(ctx context.Context, page, pageSize int, search, status string, now time.Time) ([]models.Campaign, int64, error) {
	var campaigns []models.Campaign
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Campaign{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	switch status {
	case models.CampaignStatusInactive:
		query = query.Where("is_active = ?", false)
	case models.CampaignStatusUpcoming:
		query = query.Where("is_active = ? AND start_date > ?", true, now)
	case models.CampaignStatusActive:
		query = query.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now)
	case models.CampaignStatusFinished:
		query = query.Where("is_active = ? AND end_date < ?", true, now)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Branches").
		Preload("Products").
		Order("priority DESC, start_date DESC, id ASC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&campaigns).Error
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// FindLiveForProduct returns the campaigns that are switched on, contain now in
// their window and carry a rule for the product. Each campaign is loaded with
// only that product's rule, the rule's branch overrides and the campaign's
// branch assignments.
func (r *CampaignRepository) FindLiveForProduct(ctx context.Context, productID uint, now time.Time) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Joins("JOIN campaign_products cp ON cp.campaign_id = campaigns.id AND cp.product_id = ? AND cp.deleted_at IS NULL", productID).
		Where("campaigns.is_active = ? AND campaigns.start_date <= ? AND campaigns.end_date >= ?", true, now, now).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("product_id = ?", productID).Preload("BranchOverrides")
		}).
		Preload("Branches").
		Order("campaigns.priority DESC, campaigns.start_date DESC, campaigns.id ASC").
		Find(&campaigns).Error
	return campaigns, err
}
