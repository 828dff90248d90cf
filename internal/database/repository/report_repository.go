package repository

import (
	"context"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"github.com/jmoiron/sqlx"
)

const campaignSalesQuery = `
	SELECT
		cp.id AS campaign_product_id,
		p.id AS product_id,
		p.sku,
		p.name AS product_name,
		cp.discount_type,
		cp.discount_value,
		p.base_price,
		cp.max_quantity,
		cp.sold_quantity,
		COUNT(cpb.id) AS override_count
	FROM campaign_products cp
	JOIN products p ON p.id = cp.product_id
	LEFT JOIN campaign_product_branches cpb
		ON cpb.campaign_product_id = cp.id AND cpb.deleted_at IS NULL
	WHERE cp.campaign_id = $1 AND cp.deleted_at IS NULL
	GROUP BY cp.id, p.id
	ORDER BY p.name ASC`

// ReportRepository runs read-only aggregate queries over the reporting pool
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CampaignSales returns the quota usage of every product in a campaign
func (r *ReportRepository) CampaignSales(ctx context.Context, campaignID uint) ([]models.CampaignSalesRow, error) {
	rows := []models.CampaignSalesRow{}
	if err := r.db.SelectContext(ctx, &rows, campaignSalesQuery, campaignID); err != nil {
		return nil, err
	}
	return rows, nil
}
