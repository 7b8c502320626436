package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Role names carried in the access-token "role" claim.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Locals keys set by Auth for downstream handlers.
const (
	LocalUserID = "user_id"
	LocalPhone  = "phone"
	LocalRole   = "role"
)

// Auth validates the bearer access token and stores the caller's identity in
// locals. Any authenticated identity passes; staff gating is RequireStaff's job.
func Auth(jwtSecret string) fiber.Handler {
	secret := []byte(jwtSecret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"ok": false, "error": "请先登录"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"ok": false, "error": "无效的认证格式"})
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(401).JSON(fiber.Map{"ok": false, "error": "登录已过期，请重新登录"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"ok": false, "error": "登录已过期，请重新登录"})
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(401).JSON(fiber.Map{"ok": false, "error": "登录已过期，请重新登录"})
		}
		phone, _ := claims["phone"].(string)
		role, _ := claims["role"].(string)
		if role == "" {
			role = RoleCustomer
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalPhone, phone)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireStaff rejects callers whose token lacks the staff or admin role.
// Must run after Auth.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if role != RoleStaff && role != RoleAdmin {
			return c.Status(403).JSON(fiber.Map{"ok": false, "error": "没有管理员权限"})
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller's id from locals.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// Phone returns the authenticated caller's phone from locals.
func Phone(c *fiber.Ctx) string {
	phone, _ := c.Locals(LocalPhone).(string)
	return phone
}
