package handler

import (
	"errors"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"
	"github.com/genghao161-arch/anyue-lemon-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}
	if strings.TrimSpace(req.Phone) == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "手机号和密码不能为空"})
	}

	resp, err := h.auth.Register(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			return c.Status(409).JSON(fiber.Map{"ok": false, "error": "手机号已注册"})
		case errors.Is(err, service.ErrWeakPassword):
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "密码至少 6 位"})
		default:
			return c.Status(500).JSON(fiber.Map{"ok": false, "error": "注册失败"})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"ok":           true,
		"accessToken":  resp.AccessToken,
		"refreshToken": resp.RefreshToken,
		"user":         resp.User,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}
	if strings.TrimSpace(req.Phone) == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "手机号和密码不能为空"})
	}

	resp, err := h.auth.Login(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.Status(401).JSON(fiber.Map{"ok": false, "error": "手机号或密码错误"})
		case errors.Is(err, service.ErrAccountDisabled):
			return c.Status(403).JSON(fiber.Map{"ok": false, "error": "账号已被禁用"})
		default:
			return c.Status(500).JSON(fiber.Map{"ok": false, "error": "登录失败"})
		}
	}

	return c.JSON(fiber.Map{
		"ok":           true,
		"accessToken":  resp.AccessToken,
		"refreshToken": resp.RefreshToken,
		"user":         resp.User,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req model.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "缺少 refreshToken"})
	}

	tokens, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrAccountDisabled) {
			return c.Status(403).JSON(fiber.Map{"ok": false, "error": "账号已被禁用"})
		}
		return c.Status(401).JSON(fiber.Map{"ok": false, "error": "登录已过期，请重新登录"})
	}

	return c.JSON(fiber.Map{
		"ok":           true,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req model.LogoutRequest
	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		_ = h.auth.Logout(c.Context(), req.RefreshToken)
	}
	// Logout never fails from the client's point of view.
	return c.JSON(fiber.Map{"ok": true})
}

// Me reports the caller's identity. Anonymous or expired callers get a 200
// with user null; the frontend polls this on page load and must not see an
// error toast just for being logged out.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || tokenString == authHeader {
		return c.JSON(fiber.Map{"ok": false, "user": nil})
	}

	userID, _, _, err := h.auth.ValidateAccessToken(tokenString)
	if err != nil {
		return c.JSON(fiber.Map{"ok": false, "user": nil})
	}

	user, err := h.auth.GetUser(c.Context(), userID)
	if err != nil {
		return c.JSON(fiber.Map{"ok": false, "user": nil})
	}

	return c.JSON(fiber.Map{"ok": true, "user": user.Payload()})
}
