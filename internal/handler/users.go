package handler

import (
	"strconv"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/middleware"
	"github.com/genghao161-arch/anyue-lemon-project/internal/model"
	"github.com/genghao161-arch/anyue-lemon-project/internal/repository"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler is the admin user-management surface.
type UserHandler struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
}

func NewUserHandler(users *repository.UserRepository, sessions *repository.SessionRepository) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取用户列表失败"})
	}

	items := make([]model.AdminUserItem, 0, len(users))
	for i := range users {
		u := &users[i]
		lastLogin := ""
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04:05")
		}
		items = append(items, model.AdminUserItem{
			ID:         u.ID,
			Phone:      u.Phone,
			IsStaff:    u.IsStaff,
			IsActive:   u.IsActive,
			DateJoined: u.CreatedAt.Format("2006-01-02 15:04:05"),
			LastLogin:  lastLogin,
		})
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req model.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "手机号和密码不能为空"})
	}
	if len(req.Password) < 6 {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "密码至少 6 位"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "创建用户失败"})
	}

	user, err := h.users.Create(c.Context(), phone, string(hash), req.IsStaff, false)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "手机号已存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "创建用户失败"})
	}

	return c.Status(201).JSON(fiber.Map{"ok": true, "item": user.Payload()})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "无效的用户 ID"})
	}

	var req model.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}

	// An admin cannot lock themselves out through this endpoint.
	if id == middleware.UserID(c) {
		if req.IsStaff != nil && !*req.IsStaff {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "不能取消自己的管理员权限"})
		}
		if req.IsActive != nil && !*req.IsActive {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "不能禁用自己的账号"})
		}
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "密码至少 6 位"})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新用户失败"})
		}
		s := string(hash)
		passwordHash = &s
	}

	if err := h.users.Update(c.Context(), id, &req, passwordHash); err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "手机号已存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新用户失败"})
	}

	// Disabling an account or changing its password kills its sessions.
	if (req.IsActive != nil && !*req.IsActive) || passwordHash != nil {
		_ = h.sessions.RevokeAllForUser(c.Context(), id)
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "无效的用户 ID"})
	}
	if id == middleware.UserID(c) {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "不能删除自己的账号"})
	}

	if err := h.users.Delete(c.Context(), id); err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "删除用户失败"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
