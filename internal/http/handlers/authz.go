package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bizbook/internal/domain"
	applog "bizbook/internal/log"
	"bizbook/internal/services"
)

const (
	cookieName = "token"
	localAdmin = "admin"
)

// tokenFrom reads the session cookie, then an Authorization: Bearer header.
func tokenFrom(c *fiber.Ctx) string {
	if tok := c.Cookies(cookieName); tok != "" {
		return tok
	}
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAdmin answers 401 without a token and 403 for a bad one. On success
// the principal is stored under Locals("admin").
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.Authenticate(tokenFrom(c))
		if err != nil {
			if errors.Is(err, domain.ErrInvalidSession) {
				applog.Security(c, "access.denied.admin", map[string]any{"reason": "invalid_token"})
			}
			return fail(c, "auth.gate", err)
		}
		c.Locals(localAdmin, p)
		return c.Next()
	}
}

// CurrentAdmin returns the principal set by RequireAdmin, or nil.
func CurrentAdmin(c *fiber.Ctx) *domain.Principal {
	p, _ := c.Locals(localAdmin).(*domain.Principal)
	return p
}
