package models

import (
	"time"

	"github.com/lib/pq"
)

// Privilege codes checked by the API
const (
	PrivilegeCatalogManage   = "catalog.manage"
	PrivilegeCampaignsManage = "campaigns.manage"
	PrivilegeBranchesManage  = "branches.manage"
	PrivilegeUsersManage     = "users.manage"
	PrivilegeSalesConsume    = "sales.consume"
)

// AllPrivileges lists every privilege code
var AllPrivileges = []string{
	PrivilegeCatalogManage,
	PrivilegeCampaignsManage,
	PrivilegeBranchesManage,
	PrivilegeUsersManage,
	PrivilegeSalesConsume,
}

// Role represents a named set of privileges (e.g., "cashier")
type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null;unique;index" example:"cashier"`
	Description string         `json:"description" gorm:"type:text" example:"Registers sales at a branch"`
	Privileges  pq.StringArray `json:"privileges" gorm:"type:text[]" swaggertype:"array,string"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	// Relationships
	Users []User `json:"users,omitempty" gorm:"many2many:user_roles;"`
}

// TableName specifies the table name for the Role model
func (Role) TableName() string {
	return "roles"
}

// Grants reports whether the role carries the privilege
func (r Role) Grants(code string) bool {
	for _, p := range r.Privileges {
		if p == code {
			return true
		}
	}
	return false
}

// CreateRoleRequest represents the request to create a role
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=100" example:"cashier"`
	Description string   `json:"description" example:"Registers sales at a branch"`
	Privileges  []string `json:"privileges" binding:"dive,oneof=catalog.manage campaigns.manage branches.manage users.manage sales.consume"`
}

// AssignRoleRequest represents the request to assign a role to a user
type AssignRoleRequest struct {
	RoleID uint `json:"role_id" binding:"required" example:"2"`
}

// UserRoleResponse represents a user with their roles
type UserRoleResponse struct {
	UserID     uint     `json:"user_id"`
	Username   string   `json:"username"`
	Roles      []string `json:"roles"`
	Privileges []string `json:"privileges"`
}
