package models

import (
	"time"
)

// Stock is the on-hand quantity of a product at a branch
type Stock struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProductID   uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_stocks_product_branch"`
	BranchID    uint      `json:"branch_id" gorm:"not null;uniqueIndex:idx_stocks_product_branch;index"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`
	MinQuantity int       `json:"min_quantity" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	Branch  *Branch  `json:"branch,omitempty" gorm:"foreignKey:BranchID;references:ID"`
}

// TableName specifies the table name for the Stock model
func (Stock) TableName() string {
	return "stocks"
}

// SetStockRequest sets the absolute quantity of a product at a branch
type SetStockRequest struct {
	ProductID   uint `json:"product_id" binding:"required" example:"1"`
	BranchID    uint `json:"branch_id" binding:"required" example:"2"`
	Quantity    int  `json:"quantity" binding:"min=0" example:"40"`
	MinQuantity int  `json:"min_quantity" binding:"min=0" example:"5"`
}

// AdjustStockRequest moves the quantity of a product at a branch by delta
type AdjustStockRequest struct {
	ProductID uint `json:"product_id" binding:"required" example:"1"`
	BranchID  uint `json:"branch_id" binding:"required" example:"2"`
	Delta     int  `json:"delta" binding:"required" example:"-3"`
}
