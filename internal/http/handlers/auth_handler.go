package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"bizbook/internal/domain"
	"bizbook/internal/log"
	"bizbook/internal/metrics"
	"bizbook/internal/services"
)

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  expires,
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "auth.login", err)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
	}

	tok, p, err := h.Auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.RecordLogin(false)
			log.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		}
		return fail(c, "auth.login", err)
	}

	metrics.RecordLogin(true)
	h.setCookie(c, tok, p.ExpiresAt)
	c.Locals(localAdmin, p)
	log.Audit(c, "auth.login.success", nil)
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Login successful",
		"token":      tok,
		"user":       p,
		"expires_at": p.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// POST /api/auth/logout
//
// Only the cookie goes away; a copied token stays valid until it expires.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setCookie(c, "", time.Now().Add(-time.Hour))
	if p, err := h.Auth.Authenticate(tokenFrom(c)); err == nil {
		c.Locals(localAdmin, p)
	}
	log.Audit(c, "auth.logout", nil)
	return ok(c, "Logout successful")
}

// GET /api/auth/status
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	p, err := h.Auth.Authenticate(tokenFrom(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{
		"authenticated": true,
		"user":          p,
		"expires_at":    p.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
