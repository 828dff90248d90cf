package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Campaign status values derived from the active flag and the date window.
const (
	CampaignStatusInactive = "inactive"
	CampaignStatusUpcoming = "upcoming"
	CampaignStatusActive   = "active"
	CampaignStatusFinished = "finished"
)

// Discount types accepted on campaign products.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixedPrice = "fixed_price"
)

// Campaign represents a time-boxed promotional period
type Campaign struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	StartDate   time.Time      `json:"start_date" gorm:"not null;index"`
	EndDate     time.Time      `json:"end_date" gorm:"not null;index"`
	IsActive    bool           `json:"is_active" gorm:"default:true;index"`
	Priority    int            `json:"priority" gorm:"default:0;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Products []CampaignProduct `json:"products,omitempty" gorm:"foreignKey:CampaignID;references:ID;constraint:OnDelete:CASCADE"`
	Branches []CampaignBranch  `json:"branches,omitempty" gorm:"foreignKey:CampaignID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// StatusAt derives the campaign status at the given instant
func (c *Campaign) StatusAt(now time.Time) string {
	switch {
	case !c.IsActive:
		return CampaignStatusInactive
	case now.Before(c.StartDate):
		return CampaignStatusUpcoming
	case now.After(c.EndDate):
		return CampaignStatusFinished
	default:
		return CampaignStatusActive
	}
}

// CampaignProduct is one product's offer within one campaign
type CampaignProduct struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CampaignID    uint            `json:"campaign_id" gorm:"not null;index"`
	ProductID     uint            `json:"product_id" gorm:"not null;index"`
	DiscountType  string          `json:"discount_type" gorm:"type:varchar(20);not null"`
	DiscountValue decimal.Decimal `json:"discount_value" gorm:"type:decimal(12,2);not null"`
	MaxQuantity   *int            `json:"max_quantity"`
	SoldQuantity  int             `json:"sold_quantity" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relationships
	Campaign        *Campaign               `json:"campaign,omitempty" gorm:"foreignKey:CampaignID;references:ID"`
	Product         *Product                `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	BranchOverrides []CampaignProductBranch `json:"branch_overrides,omitempty" gorm:"foreignKey:CampaignProductID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the CampaignProduct model
func (CampaignProduct) TableName() string {
	return "campaign_products"
}

// CampaignBranch assigns a campaign to a branch
type CampaignBranch struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CampaignID uint           `json:"campaign_id" gorm:"not null;index"`
	BranchID   uint           `json:"branch_id" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Branch *Branch `json:"branch,omitempty" gorm:"foreignKey:BranchID;references:ID"`
}

// TableName specifies the table name for the CampaignBranch model
func (CampaignBranch) TableName() string {
	return "campaign_branches"
}

// CampaignProductBranch overrides a campaign product's discount value for one branch
type CampaignProductBranch struct {
	ID                    uint            `json:"id" gorm:"primaryKey"`
	CampaignProductID     uint            `json:"campaign_product_id" gorm:"not null;index"`
	BranchID              uint            `json:"branch_id" gorm:"not null;index"`
	DiscountValueOverride decimal.Decimal `json:"discount_value_override" gorm:"type:decimal(12,2);not null"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name for the CampaignProductBranch model
func (CampaignProductBranch) TableName() string {
	return "campaign_product_branches"
}

// CreateCampaignRequest represents the request to create a new campaign
type CreateCampaignRequest struct {
	Name        string    `json:"name" binding:"required,max=255" example:"Black Friday"`
	Description string    `json:"description" example:"Store-wide discounts"`
	StartDate   time.Time `json:"start_date" binding:"required" example:"2025-11-28T00:00:00Z"`
	EndDate     time.Time `json:"end_date" binding:"required" example:"2025-11-30T23:59:59Z"`
	IsActive    *bool     `json:"is_active" example:"true"`
	Priority    int       `json:"priority" example:"10"`
	BranchIDs   []uint    `json:"branch_ids"`
}

// UpdateCampaignRequest represents the request to update a campaign
type UpdateCampaignRequest struct {
	Name        string    `json:"name" binding:"required,max=255" example:"Black Friday"`
	Description string    `json:"description" example:"Store-wide discounts"`
	StartDate   time.Time `json:"start_date" binding:"required" example:"2025-11-28T00:00:00Z"`
	EndDate     time.Time `json:"end_date" binding:"required" example:"2025-11-30T23:59:59Z"`
	Priority    int       `json:"priority" example:"10"`
}

// SetCampaignBranchesRequest replaces the set of branches a campaign is assigned to
type SetCampaignBranchesRequest struct {
	BranchIDs []uint `json:"branch_ids"`
}

// CampaignProductRequest represents the request to add or update a product in a campaign
type CampaignProductRequest struct {
	ProductID     uint            `json:"product_id" binding:"required" example:"12"`
	DiscountType  string          `json:"discount_type" binding:"required,oneof=percentage fixed_price" example:"percentage"`
	DiscountValue decimal.Decimal `json:"discount_value" swaggertype:"string" example:"25.00"`
	MaxQuantity   *int            `json:"max_quantity" example:"100"`
}

// BranchOverrideRequest represents the request to set a branch-specific discount value
type BranchOverrideRequest struct {
	DiscountValueOverride decimal.Decimal `json:"discount_value_override" swaggertype:"string" example:"30.00"`
}

// ConsumeOfferRequest represents a confirmed sale against an offer quota
type ConsumeOfferRequest struct {
	Quantity int `json:"quantity" binding:"omitempty,min=1" example:"1"`
}

// CampaignResponse represents the response for campaign operations
type CampaignResponse struct {
	ID          uint                      `json:"id" example:"1"`
	Name        string                    `json:"name" example:"Black Friday"`
	Description string                    `json:"description"`
	StartDate   time.Time                 `json:"start_date"`
	EndDate     time.Time                 `json:"end_date"`
	IsActive    bool                      `json:"is_active"`
	Priority    int                       `json:"priority"`
	Status      string                    `json:"status" example:"active"`
	BranchIDs   []uint                    `json:"branch_ids"`
	Products    []CampaignProductResponse `json:"products"`
	CreatedAt   string                    `json:"created_at"`
	UpdatedAt   string                    `json:"updated_at"`
}

// CampaignProductResponse represents a campaign product with its quota state
type CampaignProductResponse struct {
	ID              uint                     `json:"id"`
	CampaignID      uint                     `json:"campaign_id"`
	ProductID       uint                     `json:"product_id"`
	DiscountType    string                   `json:"discount_type"`
	DiscountValue   decimal.Decimal          `json:"discount_value" swaggertype:"string"`
	MaxQuantity     *int                     `json:"max_quantity"`
	SoldQuantity    int                      `json:"sold_quantity"`
	RemainingStock  *int                     `json:"remaining_stock"`
	BranchOverrides []BranchOverrideResponse `json:"branch_overrides"`
}

// BranchOverrideResponse represents a branch-specific discount value
type BranchOverrideResponse struct {
	BranchID              uint            `json:"branch_id"`
	DiscountValueOverride decimal.Decimal `json:"discount_value_override" swaggertype:"string"`
}

// CampaignSalesRow is one line of the campaign sales report
type CampaignSalesRow struct {
	CampaignProductID uint            `db:"campaign_product_id" json:"campaign_product_id"`
	ProductID         uint            `db:"product_id" json:"product_id"`
	SKU               string          `db:"sku" json:"sku"`
	ProductName       string          `db:"product_name" json:"product_name"`
	DiscountType      string          `db:"discount_type" json:"discount_type"`
	DiscountValue     decimal.Decimal `db:"discount_value" json:"discount_value"`
	BasePrice         decimal.Decimal `db:"base_price" json:"base_price"`
	MaxQuantity       *int            `db:"max_quantity" json:"max_quantity"`
	SoldQuantity      int             `db:"sold_quantity" json:"sold_quantity"`
	OverrideCount     int             `db:"override_count" json:"override_count"`
}
