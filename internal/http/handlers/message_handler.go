package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bizbook/internal/domain"
	applog "bizbook/internal/log"
	"bizbook/internal/metrics"
	"bizbook/internal/services"
)

type MessageHandler struct {
	Inbox *services.InboxService
}

// GET /api/messages
func (h *MessageHandler) List(c *fiber.Ctx) error {
	out, err := h.Inbox.List(c.UserContext())
	if err != nil {
		return fail(c, "messages.list", err)
	}
	return c.JSON(out)
}

// GET /api/messages/:id
func (h *MessageHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "messages.get", err)
	}
	m, err := h.Inbox.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "messages.get", err)
	}
	return c.JSON(m)
}

// POST /api/messages
func (h *MessageHandler) Submit(c *fiber.Ctx) error {
	var in domain.NewMessage
	if err := bind(c, &in); err != nil {
		return fail(c, "messages.submit", err)
	}
	m, err := h.Inbox.Submit(c.UserContext(), in)
	if err != nil {
		return fail(c, "messages.submit", err)
	}
	metrics.RecordMessage()
	applog.Info(c, "messages.submit", map[string]any{"message_id": m.ID})
	return c.Status(fiber.StatusCreated).JSON(m)
}

// PATCH /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "messages.read", err)
	}
	m, err := h.Inbox.MarkRead(c.UserContext(), id)
	if err != nil {
		return fail(c, "messages.read", err)
	}
	return c.JSON(m)
}
