package handler

import (
	"errors"

	"github.com/genghao161-arch/anyue-lemon-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	upload *service.UploadService
}

func NewUploadHandler(upload *service.UploadService) *UploadHandler {
	return &UploadHandler{upload: upload}
}

// Image accepts a multipart product image under the "file" field.
func (h *UploadHandler) Image(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "缺少文件"})
	}

	result, err := h.upload.SaveImage(fh)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadExtension):
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "仅支持 jpg/jpeg/png/webp/gif 图片"})
		case errors.Is(err, service.ErrFileTooLarge):
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "文件不能超过 5MB"})
		default:
			return c.Status(500).JSON(fiber.Map{"ok": false, "error": "上传失败"})
		}
	}

	return c.JSON(fiber.Map{"ok": true, "url": result.URL, "path": result.Path})
}
