package models

import (
	"time"

	"gorm.io/gorm"
)

// Category classifies products; categories may nest one under another
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(150);not null"`
	Description string         `json:"description" gorm:"type:text"`
	ParentID    *uint          `json:"parent_id" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// CategoryRequest represents the request to create or update a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=150" example:"Lácteos"`
	Description string `json:"description" example:"Leche, quesos y yogures"`
	ParentID    *uint  `json:"parent_id" example:"2"`
}
