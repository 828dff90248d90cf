package models

import (
	"time"
)

// User represents a back-office user
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Username     string     `json:"username" gorm:"type:varchar(255);not null;unique;index"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	FirstName    string     `json:"first_name" gorm:"type:varchar(255)"`
	LastName     string     `json:"last_name" gorm:"type:varchar(255)"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`
	IsAdmin      bool       `json:"is_admin" gorm:"default:false;index"`
	TokenVersion uint       `json:"token_version" gorm:"default:0"`
	BranchID     *uint      `json:"branch_id" gorm:"index"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	// Relationships
	Roles         []Role         `json:"roles,omitempty" gorm:"many2many:user_roles;"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasPrivilege reports whether any of the loaded roles grants the privilege
func (u *User) HasPrivilege(code string) bool {
	if u.IsAdmin {
		return true
	}
	for _, role := range u.Roles {
		if role.Grants(code) {
			return true
		}
	}
	return false
}
