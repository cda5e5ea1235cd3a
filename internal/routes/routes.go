package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/config"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/middleware"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Device    *handlers.DeviceHandler
	Clipboard *handlers.ClipboardHandler
	Health    *handlers.HealthHandler
}

// NewApp builds the Fiber app with the global middleware stack.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.Metrics())

	return app
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/health", h.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Per-IP rate limit on the sync endpoints
	api := app.Group("/", limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMin,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Post("/register", h.Auth.Register)
	api.Post("/login", h.Auth.Login)

	guard := middleware.TokenGuard(cfg)
	api.Post("/update_device_label", guard, h.Device.UpdateLabel)
	api.Post("/remove_device", guard, h.Device.Remove)
	api.Get("/get_devices", guard, h.Device.List)
	api.Post("/add_clipboard", guard, h.Clipboard.Add)
	api.Get("/get_clipboards", guard, h.Clipboard.List)
	api.Post("/delete_clipboard", guard, h.Clipboard.Delete)
	api.Post("/clear_clipboards", guard, h.Clipboard.Clear)

	app.Use(handlers.NotFound)
}
