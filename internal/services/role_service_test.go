package services

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

func TestBuildUserRoleResponse(t *testing.T) {
	user := &models.User{
		ID:       3,
		Username: "maria",
		Roles: []models.Role{
			{Name: "catalog_manager", Privileges: pq.StringArray{models.PrivilegeCatalogManage}},
			{Name: "cashier", Privileges: pq.StringArray{models.PrivilegeSalesConsume, models.PrivilegeCatalogManage}},
		},
	}

	resp := BuildUserRoleResponse(user)
	assert.Equal(t, uint(3), resp.UserID)
	assert.Equal(t, []string{"catalog_manager", "cashier"}, resp.Roles)
	assert.Equal(t, []string{models.PrivilegeCatalogManage, models.PrivilegeSalesConsume}, resp.Privileges)
}

func TestBuildUserRoleResponse_AdminHasEverything(t *testing.T) {
	resp := BuildUserRoleResponse(&models.User{ID: 1, IsAdmin: true})
	assert.Len(t, resp.Privileges, len(models.AllPrivileges))
	assert.Empty(t, resp.Roles)
}

func TestIsKnownPrivilege(t *testing.T) {
	assert.True(t, isKnownPrivilege(models.PrivilegeUsersManage))
	assert.False(t, isKnownPrivilege("root"))
}
