package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceTier is a volume price: buying at least MinQuantity units costs UnitPrice each
type PriceTier struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProductID   uint            `json:"product_id" gorm:"not null;index"`
	MinQuantity int             `json:"min_quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name for the PriceTier model
func (PriceTier) TableName() string {
	return "price_tiers"
}

// PriceTierRequest represents the request to create or update a price tier
type PriceTierRequest struct {
	MinQuantity int             `json:"min_quantity" binding:"required,min=1" example:"12"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"25.90"`
}

// VolumePriceResponse is the unit price that applies to a quantity
type VolumePriceResponse struct {
	ProductID   uint            `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Total       decimal.Decimal `json:"total" swaggertype:"string"`
	TierID      *uint           `json:"tier_id"`
	BasePrice   decimal.Decimal `json:"base_price" swaggertype:"string"`
	MinQuantity int             `json:"min_quantity"`
}
