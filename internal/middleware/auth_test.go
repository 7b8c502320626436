package middleware

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", Auth(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "userId": UserID(c), "phone": Phone(c)})
	})
	app.Get("/staff", Auth(testSecret), RequireStaff(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func token(t *testing.T, userID int64, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"phone": "13800138000",
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthMissingHeader(t *testing.T) {
	app := newAuthApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthMalformedHeader(t *testing.T) {
	app := newAuthApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthExpiredToken(t *testing.T) {
	app := newAuthApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, 1, RoleCustomer, -time.Minute))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthValidToken(t *testing.T) {
	app := newAuthApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, 42, RoleCustomer, 15*time.Minute))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequireStaffForbidsCustomers(t *testing.T) {
	app := newAuthApp()
	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, 42, RoleCustomer, 15*time.Minute))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRequireStaffAllowsStaffAndAdmin(t *testing.T) {
	app := newAuthApp()
	for _, role := range []string{RoleStaff, RoleAdmin} {
		req := httptest.NewRequest("GET", "/staff", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, 42, role, 15*time.Minute))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, role)
	}
}
