package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"bizbook/internal/services"
)

type AdminHandler struct {
	Dashboard *services.DashboardService
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Dashboard.Stats(c.UserContext())
	if err != nil {
		return fail(c, "admin.stats", err)
	}
	return c.JSON(st)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store pinger
}

// GET /healthz
func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}
	return c.JSON(fiber.Map{"ok": true})
}
