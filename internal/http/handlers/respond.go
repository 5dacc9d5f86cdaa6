package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bizbook/internal/domain"
	applog "bizbook/internal/log"
)

const msgServerError = "Server error"

// fail maps a service error onto the JSON error envelope. Store failures are
// logged in full and answered with a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		c.Status(fiber.StatusBadRequest)
		applog.Info(c, action+".invalid", map[string]any{"field": ve.Field})
		return c.JSON(fiber.Map{"error": ve.Error()})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Entity + " not found"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidSession):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	c.Status(fiber.StatusInternalServerError)
	applog.Error(c, action+".fail", err, nil)
	return c.JSON(fiber.Map{"error": msgServerError})
}

// bind decodes a JSON body into dst.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Invalid("", "invalid request body")
	}
	return nil
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return int64(id), nil
}

func ok(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// ErrorHandler catches whatever a handler returned unhandled. Only client
// errors keep their text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	c.Status(code)
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	return c.JSON(fiber.Map{"error": msg})
}
