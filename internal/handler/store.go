package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"
	"github.com/genghao161-arch/anyue-lemon-project/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type StoreHandler struct {
	stores *repository.StoreRepository
}

func NewStoreHandler(stores *repository.StoreRepository) *StoreHandler {
	return &StoreHandler{stores: stores}
}

func (h *StoreHandler) List(c *fiber.Ctx) error {
	stores, err := h.stores.ListActive(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取门店列表失败"})
	}

	items := make([]model.StoreItem, 0, len(stores))
	for i := range stores {
		items = append(items, stores[i].Item())
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *StoreHandler) AdminList(c *fiber.Ctx) error {
	stores, err := h.stores.ListAll(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取门店列表失败"})
	}

	items := make([]model.AdminStoreItem, 0, len(stores))
	for i := range stores {
		items = append(items, stores[i].AdminItem())
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var req model.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "门店名称不能为空"})
	}
	if req.Address == nil || strings.TrimSpace(*req.Address) == "" ||
		req.City == nil || strings.TrimSpace(*req.City) == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "门店地址和城市不能为空"})
	}

	lng, _, err := coordValue(req.Lng)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "经度 lng 必须是数字"})
	}
	lat, _, err := coordValue(req.Lat)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "纬度 lat 必须是数字"})
	}

	store := &model.Store{
		Name:   strings.TrimSpace(*req.Name),
		Lng:    lng,
		Lat:    lat,
		Status: 1,
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.City != nil {
		store.City = *req.City
	}
	if req.Hours != nil {
		store.Hours = *req.Hours
	}
	if req.Phone != nil {
		store.Phone = *req.Phone
	}
	if req.Status != nil {
		store.Status = *req.Status
	}

	id, err := h.stores.Create(c.Context(), store)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "创建门店失败"})
	}
	store.ID = id

	return c.Status(201).JSON(fiber.Map{"ok": true, "item": store.AdminItem()})
}

func (h *StoreHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "无效的门店 ID"})
	}
	if _, err := h.stores.GetByID(c.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "门店不存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新门店失败"})
	}

	var req model.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}

	lng, setLng, err := coordValue(req.Lng)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "经度 lng 必须是数字"})
	}
	lat, setLat, err := coordValue(req.Lat)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "纬度 lat 必须是数字"})
	}

	if err := h.stores.Update(c.Context(), id, &req, lng, lat, setLng, setLat); err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新门店失败"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "无效的门店 ID"})
	}
	if err := h.stores.Delete(c.Context(), id); err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "删除门店失败"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// coordValue accepts the three shapes the admin frontend sends for a
// coordinate: a number, a numeric string, or an empty string (clears the
// value). set reports whether the field was present at all.
func coordValue(v any) (val *float64, set bool, err error) {
	switch t := v.(type) {
	case nil:
		return nil, false, nil
	case float64:
		return &t, true, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, true, nil
		}
		f, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return nil, false, perr
		}
		return &f, true, nil
	default:
		return nil, false, errors.New("unsupported coordinate type")
	}
}
