package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/varshaaa-v/Web-Technology-Project/internal/config"
	"github.com/varshaaa-v/Web-Technology-Project/internal/handlers"
	"github.com/varshaaa-v/Web-Technology-Project/internal/middleware"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Category *handlers.CategoryHandler
	Task     *handlers.TaskHandler
}

// Setup mounts the API. storage backs the rate limiters and may be nil for
// per-process counting.
func Setup(app *fiber.App, cfg *config.Config, h Handlers, storage fiber.Storage) {
	app.Get("/health", h.Health.Check)

	api := app.Group("/api")

	// General API rate limiter, per IP
	if cfg.RateLimitPerMin > 0 {
		api.Use(newLimiter("api", cfg.RateLimitPerMin, storage))
	}

	api.Get("/health", h.Health.Check)

	// Auth: stricter limit
	auth := api.Group("/auth")
	if cfg.AuthRateLimitPerMin > 0 {
		auth.Use(newLimiter("auth", cfg.AuthRateLimitPerMin, storage))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	// Board data, scoped to the bearer token's owner when one is sent
	board := api.Group("", middleware.OwnerScope(cfg))

	board.Get("/categories", h.Category.List)
	board.Post("/categories", h.Category.Create)
	board.Put("/categories/:id", h.Category.Rename)
	board.Delete("/categories/:id", h.Category.Delete)

	board.Get("/tasks", h.Task.List)
	board.Post("/tasks", h.Task.Create)
	board.Put("/tasks/:id", h.Task.Update)
	board.Delete("/tasks/:id", h.Task.Delete)
}

func newLimiter(name string, max int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return name + ":" + c.IP() },
		Storage:           storage,
	})
}
