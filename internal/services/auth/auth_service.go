package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/config"
	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenIssuer = "retail-backoffice-services"
	defaultRole = "cashier"
)

var (
	ErrAccountDeactivated = fmt.Errorf("account is deactivated: %w", services.ErrForbidden)
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	userRepo         *repository.UserRepository
	refreshTokenRepo *repository.RefreshTokenRepository
	roleService      *services.RoleService
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, cfg *config.AuthConfig, roleService *services.RoleService) *AuthService {
	logrus.Infof("Access token TTL: %v", cfg.AccessTokenTTL)
	logrus.Infof("Refresh token TTL: %v", cfg.RefreshTokenTTL)

	return &AuthService{
		userRepo:         repository.NewUserRepository(db),
		refreshTokenRepo: repository.NewRefreshTokenRepository(db),
		roleService:      roleService,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

// Register registers a new user
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest, userAgent, ipAddress string) (*models.AuthResponse, error) {
	exists, err := s.userRepo.CheckUsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("username already exists: %w", services.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BranchID:     req.BranchID,
		IsActive:     true,
		TokenVersion: 0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// If RoleID is provided, assign that role; otherwise, assign the default role
	if s.roleService != nil {
		if req.RoleID != 0 {
			if err := s.roleService.AssignRoleToUser(ctx, user.ID, req.RoleID); err != nil {
				logrus.Warnf("Failed to assign role %d to user %d: %v", req.RoleID, user.ID, err)
				s.assignDefaultRole(ctx, user.ID)
			}
		} else {
			s.assignDefaultRole(ctx, user.ID)
		}
	}

	return s.generateAuthResponse(ctx, user, userAgent, ipAddress)
}

func (s *AuthService) assignDefaultRole(ctx context.Context, userID uint) {
	if err := s.roleService.AssignRoleToUserByName(ctx, userID, defaultRole); err != nil {
		logrus.Warnf("Failed to assign default role '%s' to user %d: %v", defaultRole, userID, err)
	}
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, userAgent, ipAddress string) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, services.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, services.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Log error but don't fail login
		logrus.Warnf("Failed to update last login: %v", err)
	}

	return s.generateAuthResponse(ctx, user, userAgent, ipAddress)
}

// RefreshToken rotates a refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenStr, userAgent, ipAddress string) (*models.AuthResponse, error) {
	refreshToken, err := s.refreshTokenRepo.GetByToken(ctx, refreshTokenStr)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", ErrInvalidToken)
	}

	if refreshToken.ExpiresAt.Before(time.Now()) {
		_ = s.refreshTokenRepo.RevokeToken(ctx, refreshTokenStr)
		return nil, fmt.Errorf("refresh token expired: %w", ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("user %w", services.ErrNotFound)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	// Revoke the used refresh token
	if err := s.refreshTokenRepo.RevokeToken(ctx, refreshTokenStr); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.generateAuthResponse(ctx, user, userAgent, ipAddress)
}

// Logout revokes one refresh token, or every session of the user when none is given
func (s *AuthService) Logout(ctx context.Context, refreshTokenStr string, userID uint) error {
	if refreshTokenStr != "" {
		return s.refreshTokenRepo.RevokeToken(ctx, refreshTokenStr)
	}
	if err := s.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("failed to increment token version: %w", err)
	}
	if err := s.refreshTokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke all refresh tokens: %w", err)
	}
	return nil
}

// ValidateToken validates a JWT and loads its user with roles
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.User, *models.TokenInfo, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByIDWithRoles(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("user not found: %w", ErrInvalidToken)
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDeactivated
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, nil, fmt.Errorf("token version mismatch: %w", ErrInvalidToken)
	}

	return user, &models.TokenInfo{
		UserID:       claims.UserID,
		Username:     claims.Username,
		TokenVersion: claims.TokenVersion,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// parseClaims checks the signature and expiry of a JWT
func (s *AuthService) parseClaims(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}
	return claims, nil
}

// generateAuthResponse generates access and refresh tokens for a user
func (s *AuthService) generateAuthResponse(ctx context.Context, user *models.User, userAgent, ipAddress string) (*models.AuthResponse, error) {
	if len(user.Roles) == 0 {
		if withRoles, err := s.userRepo.GetByIDWithRoles(ctx, user.ID); err != nil {
			logrus.Warnf("Failed to load roles for user %d: %v", user.ID, err)
		} else {
			user.Roles = withRoles.Roles
		}
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
		User:         *user,
	}, nil
}

// generateAccessToken generates a JWT access token
func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// generateRefreshToken generates a refresh token and stores it in the database
func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
		IsRevoked: false,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return token, nil
}

// CreateAdminUser creates the bootstrap admin user if it doesn't exist
func (s *AuthService) CreateAdminUser(ctx context.Context, username, password string) error {
	existingUser, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil && existingUser != nil {
		return nil
	}
	if password == "" {
		logrus.Warnf("AUTH_ADMIN_PASSWORD is empty, skipping creation of admin user '%s'", username)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		FirstName:    "Admin",
		LastName:     "User",
		IsActive:     true,
		IsAdmin:      true,
		TokenVersion: 0,
	}

	if err := s.userRepo.Create(ctx, adminUser); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.Infof("Created admin user '%s'", username)
	return nil
}

// SetUserActive sets the active status of a user
func (s *AuthService) SetUserActive(ctx context.Context, userID uint, isActive bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %w", services.ErrNotFound)
	}

	user.IsActive = isActive
	if !isActive {
		user.TokenVersion++
	}
	return s.userRepo.Update(ctx, user)
}

// ChangePassword changes a user's password
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %w", services.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return services.NewValidationError("current_password", "is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Update password and increment token version
	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++

	return s.userRepo.Update(ctx, user)
}

// ResetPassword resets a user's password (admin only)
func (s *AuthService) ResetPassword(ctx context.Context, userID uint, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %w", services.ErrNotFound)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++

	return s.userRepo.Update(ctx, user)
}

// GetAllUsers returns all users (admin only) with pagination and search
func (s *AuthService) GetAllUsers(ctx context.Context, page, pageSize int, search string) ([]models.User, int64, error) {
	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)

	users, total, err := s.userRepo.GetAllUsers(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get users: %w", err)
	}
	return users, total, nil
}
