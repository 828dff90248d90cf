package models

import (
	"time"
)

// CampaignSaleLog records one consumption of an offer quota
type CampaignSaleLog struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	CampaignID        uint      `json:"campaign_id" gorm:"not null;index"`
	CampaignProductID uint      `json:"campaign_product_id" gorm:"not null;index"`
	ProductID         uint      `json:"product_id" gorm:"not null;index"`
	Quantity          int       `json:"quantity" gorm:"not null"`
	ConsumedBy        *uint     `json:"consumed_by" gorm:"index"`
	ConsumedAt        time.Time `json:"consumed_at" gorm:"not null;index"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name for the CampaignSaleLog model
func (CampaignSaleLog) TableName() string {
	return "campaign_sale_logs"
}

// OfferConsumedEvent is published on the sales queue after a quota consumption
type OfferConsumedEvent struct {
	Type              string    `json:"type"`
	CampaignID        uint      `json:"campaign_id"`
	CampaignProductID uint      `json:"campaign_product_id"`
	ProductID         uint      `json:"product_id"`
	Quantity          int       `json:"quantity"`
	ConsumedBy        *uint     `json:"consumed_by,omitempty"`
	ConsumedAt        time.Time `json:"consumed_at"`
}

// EventOfferConsumed is the type tag of OfferConsumedEvent
const EventOfferConsumed = "offer_consumed"
