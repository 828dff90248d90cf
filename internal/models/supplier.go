package models

import (
	"time"

	"gorm.io/gorm"
)

// Supplier provides products to the chain
type Supplier struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(200);not null"`
	TaxID       string         `json:"tax_id" gorm:"type:varchar(30);not null"`
	ContactName string         `json:"contact_name" gorm:"type:varchar(150)"`
	Email       string         `json:"email" gorm:"type:varchar(150)"`
	Phone       string         `json:"phone" gorm:"type:varchar(30)"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierRequest represents the request to create or update a supplier
type SupplierRequest struct {
	Name        string `json:"name" binding:"required,max=200" example:"Lala S.A."`
	TaxID       string `json:"tax_id" binding:"required,max=30" example:"LAL800101AAA"`
	ContactName string `json:"contact_name" example:"Ana Pérez"`
	Email       string `json:"email" binding:"omitempty,email" example:"ventas@lala.example"`
	Phone       string `json:"phone" binding:"max=30"`
	IsActive    *bool  `json:"is_active" example:"true"`
}
