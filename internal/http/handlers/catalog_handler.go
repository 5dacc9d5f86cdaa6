package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bizbook/internal/domain"
	applog "bizbook/internal/log"
	"bizbook/internal/services"
)

type BusinessHandler struct {
	Catalog *services.CatalogService
}

// GET /api/business
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	b, err := h.Catalog.BusinessDetails(c.UserContext())
	if err != nil {
		return fail(c, "business.get", err)
	}
	return c.JSON(b)
}

// PUT /api/business
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	var p domain.BusinessPatch
	if err := bind(c, &p); err != nil {
		return fail(c, "business.update", err)
	}
	b, err := h.Catalog.UpdateBusinessDetails(c.UserContext(), p)
	if err != nil {
		return fail(c, "business.update", err)
	}
	applog.Audit(c, "business.update", nil)
	return c.JSON(b)
}

type ServiceHandler struct {
	Catalog *services.CatalogService
}

// GET /api/services
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	return h.list(c, true)
}

// GET /api/services/all
func (h *ServiceHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *ServiceHandler) list(c *fiber.Ctx, activeOnly bool) error {
	out, err := h.Catalog.ListServices(c.UserContext(), activeOnly)
	if err != nil {
		return fail(c, "services.list", err)
	}
	return c.JSON(out)
}

// GET /api/services/:id
func (h *ServiceHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "services.get", err)
	}
	s, err := h.Catalog.GetService(c.UserContext(), id)
	if err != nil {
		return fail(c, "services.get", err)
	}
	return c.JSON(s)
}

// POST /api/services
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in domain.NewService
	if err := bind(c, &in); err != nil {
		return fail(c, "services.create", err)
	}
	s, err := h.Catalog.CreateService(c.UserContext(), in)
	if err != nil {
		return fail(c, "services.create", err)
	}
	applog.Audit(c, "services.create", map[string]any{"service_id": s.ID})
	return c.Status(fiber.StatusCreated).JSON(s)
}

// PUT /api/services/:id
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "services.update", err)
	}
	var p domain.ServicePatch
	if err := bind(c, &p); err != nil {
		return fail(c, "services.update", err)
	}
	s, err := h.Catalog.UpdateService(c.UserContext(), id, p)
	if err != nil {
		return fail(c, "services.update", err)
	}
	applog.Audit(c, "services.update", map[string]any{"service_id": id})
	return c.JSON(s)
}

// DELETE /api/services/:id
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "services.delete", err)
	}
	if err := h.Catalog.DeleteService(c.UserContext(), id); err != nil {
		return fail(c, "services.delete", err)
	}
	applog.Audit(c, "services.delete", map[string]any{"service_id": id})
	return ok(c, "Service deleted")
}
