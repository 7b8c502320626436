package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"
	"github.com/genghao161-arch/anyue-lemon-project/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type ProductHandler struct {
	products *repository.ProductRepository
}

func NewProductHandler(products *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// List is the public catalog: on-sale products only, insertion order.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.products.ListPublic(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取商品列表失败"})
	}

	items := make([]model.ProductListItem, 0, len(products))
	for i := range products {
		items = append(items, products[i].ListItem())
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	product, err := h.products.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "商品不存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取商品失败"})
	}
	return c.JSON(fiber.Map{"ok": true, "item": product.DetailItem()})
}

// AdminList includes off-sale products, newest first.
func (h *ProductHandler) AdminList(c *fiber.Ctx) error {
	products, err := h.products.ListAll(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "获取商品列表失败"})
	}

	items := make([]model.ProductDetailItem, 0, len(products))
	for i := range products {
		items = append(items, products[i].DetailItem())
	}
	return c.JSON(fiber.Map{"ok": true, "items": items})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req model.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Category) == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "商品 ID、标题和分类不能为空"})
	}
	if req.Price == nil || *req.Price < 0 {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "价格必须是非负数字"})
	}
	price := *req.Price
	status := 1
	if req.Status != nil {
		status = *req.Status
	}

	product := &model.Product{
		ID:          strings.TrimSpace(req.ID),
		Category:    req.Category,
		Tag:         req.Tag,
		Title:       req.Title,
		Description: req.Desc,
		Detail:      req.DetailJSON(),
		Price:       price,
		Image:       req.Img,
		Images:      encodeImages(req.Images),
		TaobaoURL:   req.TaobaoURL,
		Stock:       req.Stock,
		Sales:       req.Sales,
		Status:      status,
	}

	created, err := h.products.Create(c.Context(), product)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return c.Status(400).JSON(fiber.Map{"ok": false, "error": "商品 ID 已存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "创建商品失败"})
	}

	return c.Status(201).JSON(fiber.Map{"ok": true, "item": created.DetailItem()})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.products.GetByID(c.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "商品不存在"})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新商品失败"})
	}

	var req model.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "请求格式错误"})
	}

	var detail *string
	if req.HasDetailSections() {
		d := req.DetailJSON()
		detail = &d
	}
	var images *string
	if req.Images != nil {
		s := encodeImages(req.Images)
		images = &s
	}

	if err := h.products.Update(c.Context(), id, &req, detail, images); err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "更新商品失败"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "删除商品失败"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func encodeImages(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	raw, err := json.Marshal(urls)
	if err != nil {
		return ""
	}
	return string(raw)
}
