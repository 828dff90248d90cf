package repository

import (
	"context"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"gorm.io/gorm"
)

type SaleLogRepository struct {
	db *gorm.DB
}

func NewSaleLogRepository(db *gorm.DB) *SaleLogRepository {
	return &SaleLogRepository{db: db}
}

// Create records one consumption
func (r *SaleLogRepository) Create(ctx context.Context, log *models.CampaignSaleLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetByCampaign lists the consumptions of a campaign, newest first
func (r *SaleLogRepository) GetByCampaign(ctx context.Context, campaignID uint, page, pageSize int) ([]models.CampaignSaleLog, int64, error) {
	var logs []models.CampaignSaleLog
	var total int64
	query := r.db.WithContext(ctx).Model(&models.CampaignSaleLog{}).Where("campaign_id = ?", campaignID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("consumed_at DESC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// DeleteOldLogs deletes logs older than specified days
func (r *SaleLogRepository) DeleteOldLogs(ctx context.Context, days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).Where("consumed_at < ?", cutoffDate).Delete(&models.CampaignSaleLog{})
	return result.RowsAffected, result.Error
}
