package handler

import (
	"errors"
	"strconv"

	"github.com/genghao161-arch/anyue-lemon-project/internal/middleware"
	"github.com/genghao161-arch/anyue-lemon-project/internal/model"
	"github.com/genghao161-arch/anyue-lemon-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupportHandler struct {
	support *service.SupportService
}

func NewSupportHandler(support *service.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

// CustomerConversation ensures the caller's conversation exists and returns
// it. The mini-program calls this when the chat page opens.
func (h *SupportHandler) CustomerConversation(c *fiber.Ctx) error {
	conv, err := h.support.OpenConversation(c.Context(), middleware.UserID(c), middleware.Phone(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取会话失败"})
	}
	return c.JSON(fiber.Map{"ok": true, "conversation": conv})
}

// CustomerMessages returns the caller's own transcript, oldest first. No
// conversation yet means an empty list, not an error.
func (h *SupportHandler) CustomerMessages(c *fiber.Ctx) error {
	items, err := h.support.CustomerMessages(c.Context(), middleware.UserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取消息失败"})
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *SupportHandler) SendCustomerMessage(c *fiber.Ctx) error {
	var req model.PostSupportMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}

	msg, err := h.support.SendCustomerMessage(c.Context(), middleware.UserID(c), middleware.Phone(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "消息内容不能为空"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "发送失败"})
	}

	return c.JSON(fiber.Map{"ok": true, "item": fiber.Map{
		"id":        msg.ID,
		"createdAt": msg.CreatedAt,
	}})
}

// Conversations lists every conversation for staff triage, most recently
// active first.
func (h *SupportHandler) Conversations(c *fiber.Ctx) error {
	items, err := h.support.ListSummaries(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取会话列表失败"})
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *SupportHandler) StaffMessages(c *fiber.Ctx) error {
	convID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "无效的会话 ID"})
	}

	items, err := h.support.StaffMessages(c.Context(), convID)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "会话不存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取消息失败"})
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *SupportHandler) SendStaffMessage(c *fiber.Ctx) error {
	convID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "无效的会话 ID"})
	}

	var req model.PostSupportMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}

	msg, err := h.support.SendStaffMessage(c.Context(), convID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "消息内容不能为空"})
		case errors.Is(err, service.ErrConversationNotFound):
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "会话不存在"})
		default:
			return c.Status(500).JSON(fiber.Map{"ok": false, "error": "发送失败"})
		}
	}

	return c.JSON(fiber.Map{"ok": true, "item": fiber.Map{
		"id":        msg.ID,
		"createdAt": msg.CreatedAt,
	}})
}
