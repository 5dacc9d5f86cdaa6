package handlers

import (
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"bizbook/internal/config"
	applog "bizbook/internal/log"
	"bizbook/internal/metrics"
)

const (
	bodyLimit     = 1 << 20 // 1 MiB
	globalRateMax = 300
)

// NewApp builds the fiber app with middleware and every route. storage backs
// the rate limiters; nil keeps their counters in memory.
func NewApp(cfg config.Config, deps *Deps, storage fiber.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bizbook",
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Output: applog.Writer(),
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(helmet.New())
	// cors panics on credentials with a wildcard origin
	origins := cfg.Origins()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: len(origins) > 0 && !slices.Contains(origins, "*"),
	}))
	app.Use(metrics.Middleware())
	app.Use(limiter.New(limiter.Config{
		Max:          globalRateMax,
		Expiration:   time.Minute,
		Storage:      storage,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|all" },
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	admin := RequireAdmin(deps.Auth)
	api := app.Group("/api")

	// Auth routes (login throttled)
	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:          cfg.LoginRateMax,
		Expiration:   cfg.LoginRateWin,
		Storage:      storage,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|login" },
		Next:         func(*fiber.Ctx) bool { return cfg.LoginRateMax <= 0 },
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)
	auth.Post("/logout", deps.AuthHandler.Logout)
	auth.Get("/status", deps.AuthHandler.Status)

	// Business
	api.Get("/business", deps.BusinessHandler.Get)
	api.Put("/business", admin, deps.BusinessHandler.Update)

	// Services; /all before /:id
	api.Get("/services", deps.ServiceHandler.List)
	api.Get("/services/all", admin, deps.ServiceHandler.ListAll)
	api.Get("/services/:id", deps.ServiceHandler.Get)
	api.Post("/services", admin, deps.ServiceHandler.Create)
	api.Put("/services/:id", admin, deps.ServiceHandler.Update)
	api.Delete("/services/:id", admin, deps.ServiceHandler.Delete)

	// Customers
	api.Get("/customers", admin, deps.CustomerHandler.List)
	api.Get("/customers/:id", admin, deps.CustomerHandler.Get)
	api.Post("/customers", admin, deps.CustomerHandler.Create)

	// Appointments; booking is public
	api.Post("/appointments", deps.AppointmentHandler.Book)
	api.Get("/appointments", admin, deps.AppointmentHandler.List)
	api.Get("/appointments/:id", admin, deps.AppointmentHandler.Get)
	api.Patch("/appointments/:id", admin, deps.AppointmentHandler.Update)
	api.Delete("/appointments/:id", admin, deps.AppointmentHandler.Delete)

	// Messages; submitting is public
	api.Post("/messages", deps.MessageHandler.Submit)
	api.Get("/messages", admin, deps.MessageHandler.List)
	api.Get("/messages/:id", admin, deps.MessageHandler.Get)
	api.Patch("/messages/:id/read", admin, deps.MessageHandler.MarkRead)

	// Admin
	api.Get("/admin/stats", admin, deps.AdminHandler.Stats)

	// Health, metrics & 404
	app.Get("/healthz", deps.HealthHandler.Healthz)
	app.Get("/metrics", metrics.Handler())
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	return app
}
