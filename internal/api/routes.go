package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/laneadvisory/lanesite/internal/metrics"
	"github.com/laneadvisory/lanesite/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers) {
	cfg := handlers.config

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	// Form endpoints keep the paths the site's forms already post to
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Requests: cfg.RateLimitRequests,
		Interval: cfg.RateLimitInterval,
	})
	// Only POSTs count against the limit; other methods fall through to a 405
	app.Post("/api/contact", limiter.Handler(), handlers.Contact)
	app.Post("/api/careers-enquiry", limiter.Handler(), handlers.CareersEnquiry)
	app.All("/api/contact", handlers.Contact)
	app.All("/api/careers-enquiry", handlers.CareersEnquiry)

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Content endpoints
	api.Get("/posts",
		middleware.ValidateQueryParams(func() any { return new(PostsQuery) }),
		handlers.ListPosts)
	api.Get("/posts/:slug", handlers.GetPost)
	api.Get("/jobs",
		middleware.ValidateQueryParams(func() any { return new(JobsQuery) }),
		handlers.ListJobs)

	// Admin endpoints
	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
	admin.Post("/revalidate", handlers.Revalidate)

	app.Get("/metrics", metrics.Handler())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
