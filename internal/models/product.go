package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SKU         string          `json:"sku" gorm:"type:varchar(50);not null"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	SupplierID  *uint           `json:"supplier_id" gorm:"index"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:decimal(12,2);not null"`
	IsActive    bool            `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID;references:ID"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductRequest represents the request to create or update a product
type ProductRequest struct {
	SKU         string          `json:"sku" binding:"required,max=50" example:"LAC-0001"`
	Name        string          `json:"name" binding:"required,max=200" example:"Leche entera 1L"`
	Description string          `json:"description"`
	CategoryID  uint            `json:"category_id" binding:"required" example:"1"`
	SupplierID  *uint           `json:"supplier_id" example:"3"`
	BasePrice   decimal.Decimal `json:"base_price" swaggertype:"string" example:"28.50"`
	IsActive    *bool           `json:"is_active" example:"true"`
}
