package handler

import (
	"errors"

	"github.com/genghao161-arch/anyue-lemon-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type WeatherHandler struct {
	weather *service.WeatherService
}

func NewWeatherHandler(weather *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

func (h *WeatherHandler) Now(c *fiber.Ctx) error {
	payload, err := h.weather.Now(c.Context())
	if err != nil {
		return weatherError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "item": payload})
}

func (h *WeatherHandler) Daily(c *fiber.Ctx) error {
	payload, err := h.weather.Daily(c.Context())
	if err != nil {
		return weatherError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "item": payload})
}

func weatherError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrWeatherNotConfigured) {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "天气服务未配置"})
	}
	return c.Status(502).JSON(fiber.Map{"ok": false, "error": "获取天气数据失败"})
}
