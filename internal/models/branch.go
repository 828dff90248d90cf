package models

import (
	"time"

	"gorm.io/gorm"
)

// Branch represents a physical store
type Branch struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(150);not null"`
	Address        string         `json:"address" gorm:"type:text"`
	Phone          string         `json:"phone" gorm:"type:varchar(30)"`
	MunicipalityID uint           `json:"municipality_id" gorm:"not null;index"`
	IsActive       bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Municipality *Municipality `json:"municipality,omitempty" gorm:"foreignKey:MunicipalityID;references:ID"`
}

// TableName specifies the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}

// BranchRequest represents the request to create or update a branch
type BranchRequest struct {
	Name           string `json:"name" binding:"required,max=150" example:"Sucursal Centro"`
	Address        string `json:"address" example:"Av. Juárez 100"`
	Phone          string `json:"phone" binding:"max=30" example:"+52 81 5555 0000"`
	MunicipalityID uint   `json:"municipality_id" binding:"required" example:"1"`
	IsActive       *bool  `json:"is_active" example:"true"`
}
