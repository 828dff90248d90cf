package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"
	"github.com/onegreenvn/retail-backoffice-services/internal/services/auth"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	authService *auth.AuthService
	roleService *services.RoleService
}

func NewAdminHandler(authService *auth.AuthService, roleService *services.RoleService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		roleService: roleService,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Register a new user account. Role can be specified via role_id; defaults to "cashier".
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/register [post]
func (h *AdminHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetAllUsers godoc
// @Summary Get all users
// @Description Get list of all users with their role names, paginated and searchable
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)" minimum(1)
// @Param page_size query int false "Number of items per page (default: 20, max: 100)" minimum(1) maximum(100)
// @Param search query string false "Search term for username"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	page, pageSize := paginationFromQuery(c)

	users, total, err := h.authService.GetAllUsers(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		respondError(c, err, "Failed to get users")
		return
	}

	usersWithRoles := make([]gin.H, len(users))
	for i := range users {
		user := &users[i]
		usersWithRoles[i] = gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"branch_id":     user.BranchID,
			"is_active":     user.IsActive,
			"is_admin":      user.IsAdmin,
			"token_version": user.TokenVersion,
			"created_at":    user.CreatedAt,
			"updated_at":    user.UpdatedAt,
			"last_login_at": user.LastLoginAt,
			"roles":         services.BuildUserRoleResponse(user).Roles,
		}
	}

	c.JSON(http.StatusOK, listResponse(usersWithRoles, total, page, pageSize))
}

// SetUserStatus godoc
// @Summary Set user active status
// @Description Activate or deactivate a user account. Deactivation invalidates issued access tokens.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.SetUserActiveRequest true "Status request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/users/{id}/status [put]
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if current := currentUserID(c); current != nil && *current == userID && !req.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
		return
	}

	if err := h.authService.SetUserActive(c.Request.Context(), userID, req.IsActive); err != nil {
		respondError(c, err, "Failed to update user status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated successfully"})
}

// ResetPassword godoc
// @Summary Reset a user's password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/users/{id}/reset-password [post]
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// GetAllRoles godoc
// @Summary Get all roles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Role
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/roles [get]
func (h *AdminHandler) GetAllRoles(c *gin.Context) {
	roles, err := h.roleService.GetAllRoles(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get roles")
		return
	}

	c.JSON(http.StatusOK, roles)
}

// CreateRole godoc
// @Summary Create a role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateRoleRequest true "Role data"
// @Success 201 {object} models.Role
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/roles [post]
func (h *AdminHandler) CreateRole(c *gin.Context) {
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create role")
		return
	}

	c.JSON(http.StatusCreated, role)
}

// DeleteRole godoc
// @Summary Delete a role
// @Description Deletes the role and removes it from every user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/roles/{id} [delete]
func (h *AdminHandler) DeleteRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), roleID); err != nil {
		respondError(c, err, "Failed to delete role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}

// GetUserRoles godoc
// @Summary Get a user's roles and privileges
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.UserRoleResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/users/{id}/roles [get]
func (h *AdminHandler) GetUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.roleService.GetUserRoleResponse(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get user roles")
		return
	}

	c.JSON(http.StatusOK, response)
}

// AssignRoleToUser godoc
// @Summary Assign role to user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.AssignRoleRequest true "Role assignment request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/users/{id}/roles [post]
func (h *AdminHandler) AssignRoleToUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.roleService.AssignRoleToUser(c.Request.Context(), userID, req.RoleID); err != nil {
		respondError(c, err, "Failed to assign role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role assigned successfully",
		"user_id": userID,
		"role_id": req.RoleID,
	})
}

// RemoveRoleFromUser godoc
// @Summary Remove role from user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param roleId path int true "Role ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/users/{id}/roles/{roleId} [delete]
func (h *AdminHandler) RemoveRoleFromUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := parseIDParam(c, "roleId")
	if !ok {
		return
	}

	if err := h.roleService.RemoveRoleFromUser(c.Request.Context(), userID, roleID); err != nil {
		respondError(c, err, "Failed to remove role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role removed successfully",
		"user_id": userID,
		"role_id": roleID,
	})
}
