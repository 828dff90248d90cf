package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	user *models.User
	err  error
}

func (s stubValidator) ValidateToken(ctx context.Context, tokenString string) (*models.User, *models.TokenInfo, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.user, &models.TokenInfo{UserID: s.user.ID}, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cashier() *models.User {
	return &models.User{
		ID:       7,
		Username: "cashier",
		IsActive: true,
		Roles:    []models.Role{{Name: "cashier", Privileges: pq.StringArray{models.PrivilegeSalesConsume}}},
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		validator stubValidator
		status    int
	}{
		{"missing header", "", stubValidator{user: cashier()}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubValidator{user: cashier()}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("invalid token")}, http.StatusUnauthorized},
		{"deactivated", "Bearer ok", stubValidator{err: fmt.Errorf("deactivated: %w", services.ErrForbidden)}, http.StatusForbidden},
		{"valid", "Bearer ok", stubValidator{user: cashier()}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewBearerTokenMiddleware(tt.validator).BearerTokenAuthMiddleware())
			w := do(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestRequirePrivilege(t *testing.T) {
	auth := NewBearerTokenMiddleware(stubValidator{user: cashier()}).BearerTokenAuthMiddleware()

	w := do(newRouter(auth, RequirePrivilege(models.PrivilegeSalesConsume)), "Bearer ok")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(newRouter(auth, RequirePrivilege(models.PrivilegeCampaignsManage)), "Bearer ok")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(newRouter(RequirePrivilege(models.PrivilegeSalesConsume)), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePrivilege_AdminBypassesRoles(t *testing.T) {
	admin := &models.User{ID: 1, IsAdmin: true}
	auth := NewBearerTokenMiddleware(stubValidator{user: admin}).BearerTokenAuthMiddleware()

	w := do(newRouter(auth, RequirePrivilege(models.PrivilegeUsersManage), RequireAdmin()), "Bearer ok")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_RejectsStaff(t *testing.T) {
	auth := NewBearerTokenMiddleware(stubValidator{user: cashier()}).BearerTokenAuthMiddleware()

	w := do(newRouter(auth, RequireAdmin()), "Bearer ok")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimiter(t *testing.T) {
	r := newRouter(NewRateLimiter(0.001, 2).Middleware())

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID(), Logger())

	w := do(r, "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
