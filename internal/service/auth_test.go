package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, userID int64, phone, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"phone": phone,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateAccessToken(t *testing.T) {
	svc := NewAuthService(nil, nil, "secret", nil)

	token := signTestToken(t, "secret", 7, "13800138000", "staff", 15*time.Minute)
	userID, phone, role, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, "13800138000", phone)
	assert.Equal(t, "staff", role)
}

func TestValidateAccessTokenRejectsBadTokens(t *testing.T) {
	svc := NewAuthService(nil, nil, "secret", nil)

	_, _, _, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Wrong secret.
	wrong := signTestToken(t, "other-secret", 7, "x", "customer", 15*time.Minute)
	_, _, _, err = svc.ValidateAccessToken(wrong)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Expired.
	expired := signTestToken(t, "secret", 7, "x", "customer", -time.Minute)
	_, _, _, err = svc.ValidateAccessToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoleFor(t *testing.T) {
	assert.Equal(t, "customer", roleFor(&model.User{}))
	assert.Equal(t, "staff", roleFor(&model.User{IsStaff: true}))
	assert.Equal(t, "admin", roleFor(&model.User{IsStaff: true, IsAdmin: true}))
	assert.Equal(t, "admin", roleFor(&model.User{IsAdmin: true}))
}
