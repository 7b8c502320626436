package handler

import (
	"errors"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GeocodeHandler struct {
	geocode *service.GeocodeService
}

func NewGeocodeHandler(geocode *service.GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{geocode: geocode}
}

// Geocode resolves an address to coordinates for the admin store editor.
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "缺少 address 参数"})
	}
	city := strings.TrimSpace(c.Query("city"))

	result, err := h.geocode.Geocode(c.Context(), address, city)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGeocodeNotConfigured):
			return c.Status(500).JSON(fiber.Map{"ok": false, "error": "地理编码服务未配置"})
		case errors.Is(err, service.ErrGeocodeNoMatch):
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "地址未能解析"})
		default:
			return c.Status(502).JSON(fiber.Map{"ok": false, "error": "地理编码请求失败"})
		}
	}

	return c.JSON(fiber.Map{
		"ok":        true,
		"lng":       result.Lng,
		"lat":       result.Lat,
		"location":  result.Location,
		"formatted": result.Formatted,
	})
}
