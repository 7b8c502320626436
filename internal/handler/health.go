package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Live is the liveness probe; it does not touch the database.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "status": "healthy"})
}

// Database verifies connectivity and reports which database is wired up.
func (h *HealthHandler) Database(c *fiber.Ctx) error {
	var dbName string
	var tableCount int
	err := h.pool.QueryRow(c.Context(), `
		SELECT current_database(),
		       (SELECT count(*) FROM information_schema.tables WHERE table_schema = 'public')
	`).Scan(&dbName, &tableCount)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "数据库连接失败"})
	}

	return c.JSON(fiber.Map{
		"ok":          true,
		"db":          dbName,
		"table_count": tableCount,
	})
}
