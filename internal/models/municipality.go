package models

import (
	"time"

	"gorm.io/gorm"
)

// Municipality groups branches geographically
type Municipality struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(150);not null"`
	State     string         `json:"state" gorm:"type:varchar(150)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for the Municipality model
func (Municipality) TableName() string {
	return "municipalities"
}

// MunicipalityRequest represents the request to create or update a municipality
type MunicipalityRequest struct {
	Name  string `json:"name" binding:"required,max=150" example:"Monterrey"`
	State string `json:"state" binding:"max=150" example:"Nuevo León"`
}
