package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"github.com/sirupsen/logrus"
)

type RoleService struct {
	roleRepo *repository.RoleRepository
	userRepo *repository.UserRepository
}

func NewRoleService(roleRepo *repository.RoleRepository, userRepo *repository.UserRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

// GetAllRoles returns all roles in the system
func (s *RoleService) GetAllRoles(ctx context.Context) ([]models.Role, error) {
	return s.roleRepo.GetAll(ctx)
}

// CreateRole creates a new role carrying the given privileges
func (s *RoleService) CreateRole(ctx context.Context, req *models.CreateRoleRequest) (*models.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}
	for _, p := range req.Privileges {
		if !isKnownPrivilege(p) {
			return nil, NewValidationError("privileges", "unknown privilege '%s'", p)
		}
	}

	// Check if role already exists
	exists, err := s.roleRepo.CheckNameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check role existence: %w", err)
	}
	if exists {
		return nil, conflictf("role with name '%s' already exists", name)
	}

	role := &models.Role{
		Name:        name,
		Description: req.Description,
		Privileges:  req.Privileges,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}

// DeleteRole removes a role and its assignments
func (s *RoleService) DeleteRole(ctx context.Context, roleID uint) error {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return notFound(err, "role")
	}
	return s.roleRepo.Delete(ctx, roleID)
}

// AssignRoleToUser assigns a role to a user by role ID
func (s *RoleService) AssignRoleToUser(ctx context.Context, userID, roleID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return notFound(err, "role")
	}

	if err := s.roleRepo.AssignRoleToUser(ctx, user.ID, role.ID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	logrus.Infof("Assigned role '%s' (ID: %d) to user '%s'", role.Name, role.ID, user.Username)
	return nil
}

// AssignRoleToUserByName assigns a role to a user by role name
func (s *RoleService) AssignRoleToUserByName(ctx context.Context, userID uint, roleName string) error {
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return notFound(err, "role")
	}
	return s.AssignRoleToUser(ctx, userID, role.ID)
}

// RemoveRoleFromUser removes a role from a user by role ID
func (s *RoleService) RemoveRoleFromUser(ctx context.Context, userID, roleID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return notFound(err, "role")
	}

	if err := s.roleRepo.RemoveRoleFromUser(ctx, user.ID, role.ID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}

	logrus.Infof("Removed role '%s' (ID: %d) from user '%s'", role.Name, role.ID, user.Username)
	return nil
}

// GetUserRoleResponse returns a user with their role names and effective privileges
func (s *RoleService) GetUserRoleResponse(ctx context.Context, userID uint) (*models.UserRoleResponse, error) {
	user, err := s.userRepo.GetByIDWithRoles(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return BuildUserRoleResponse(user), nil
}

// BuildUserRoleResponse flattens a user's loaded roles
func BuildUserRoleResponse(user *models.User) *models.UserRoleResponse {
	roleNames := make([]string, 0, len(user.Roles))
	privileges := make(map[string]struct{})
	for _, role := range user.Roles {
		roleNames = append(roleNames, role.Name)
		for _, p := range role.Privileges {
			privileges[p] = struct{}{}
		}
	}
	if user.IsAdmin {
		for _, p := range models.AllPrivileges {
			privileges[p] = struct{}{}
		}
	}

	flat := make([]string, 0, len(privileges))
	for p := range privileges {
		flat = append(flat, p)
	}
	sort.Strings(flat)

	return &models.UserRoleResponse{
		UserID:     user.ID,
		Username:   user.Username,
		Roles:      roleNames,
		Privileges: flat,
	}
}

func isKnownPrivilege(code string) bool {
	for _, p := range models.AllPrivileges {
		if p == code {
			return true
		}
	}
	return false
}
