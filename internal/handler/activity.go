package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"
	"github.com/genghao161-arch/anyue-lemon-project/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ActivityHandler struct {
	activities *repository.ActivityRepository
}

func NewActivityHandler(activities *repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	activities, err := h.activities.List(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取活动列表失败"})
	}

	items := make([]model.ActivityItem, 0, len(activities))
	for i := range activities {
		items = append(items, activities[i].Item())
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

// Detail counts a view: opening an activity is the click the counter tracks.
func (h *ActivityHandler) Detail(c *fiber.Ctx) error {
	activity, err := h.activities.IncrementClick(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "活动不存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取活动失败"})
	}
	return c.JSON(fiber.Map{"ok": true, "item": activity.Item()})
}

func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var req model.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "活动标题不能为空"})
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "开始日期格式错误"})
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "结束日期格式错误"})
	}

	status := req.Status
	if status == "" {
		status = "upcoming"
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	activity := &model.Activity{
		ID:          id,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Poster:      req.Poster,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      status,
		Type:        req.Type,
	}

	if err := h.activities.Create(c.Context(), activity); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "活动 ID 已存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "创建活动失败"})
	}
	return c.Status(201).JSON(fiber.Map{"ok": true, "item": activity.Item()})
}

// AdminDetail reads an activity without counting a click.
func (h *ActivityHandler) AdminDetail(c *fiber.Ctx) error {
	activity, err := h.activities.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "活动不存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取活动失败"})
	}
	return c.JSON(fiber.Map{"ok": true, "item": activity.Item()})
}

func (h *ActivityHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.activities.GetByID(c.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "活动不存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新活动失败"})
	}

	var req model.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}

	if err := h.activities.Update(c.Context(), id, &req); err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "日期格式错误"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新活动失败"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	if err := h.activities.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "删除活动失败"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
