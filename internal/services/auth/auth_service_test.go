package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

func newTestService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{jwtSecret: []byte(secret), accessTokenTTL: ttl}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestService("secret", time.Minute)
	user := &models.User{ID: 42, Username: "cashier01", TokenVersion: 3}

	token, err := s.generateAccessToken(user)
	require.NoError(t, err)

	claims, err := s.parseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "cashier01", claims.Username)
	assert.Equal(t, uint(3), claims.TokenVersion)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestParseClaims_WrongSecret(t *testing.T) {
	token, err := newTestService("one", time.Minute).generateAccessToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = newTestService("two", time.Minute).parseClaims(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseClaims_Expired(t *testing.T) {
	s := newTestService("secret", -time.Minute)
	token, err := s.generateAccessToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = s.parseClaims(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseClaims_RejectsForeignIssuer(t *testing.T) {
	claims := &models.JWTClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newTestService("secret", time.Minute).parseClaims(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseClaims_RejectsUnsignedToken(t *testing.T) {
	claims := &models.JWTClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService("secret", time.Minute).parseClaims(token)
	assert.Error(t, err)
}
