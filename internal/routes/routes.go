package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/handlers"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	gatherer prometheus.Gatherer,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitMax,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	reports := api.Group("/reports")
	reports.Post("/", reportHandler.CreateReport)
	reports.Get("/", reportHandler.ListReports)

	// Fixed paths must be registered before /:id.
	reports.Get("/search", reportHandler.SearchReports)
	reports.Get("/status/:status", reportHandler.ListByStatus)
	reports.Get("/category/:category", reportHandler.ListByCategory)
	reports.Get("/categories", reportHandler.ListCategories)
	reports.Get("/recent", reportHandler.ListRecent)
	reports.Get("/count/status/:status", reportHandler.CountByStatus)
	reports.Get("/location", reportHandler.ListByLocation)
	reports.Get("/range", reportHandler.ListByDateRange)
	reports.Get("/stats", reportHandler.Stats)
	reports.Get("/export/csv", reportHandler.ExportCSV)

	reports.Get("/:id", reportHandler.GetReport)
	reports.Put("/:id/status", reportHandler.UpdateStatus)
	reports.Delete("/:id", reportHandler.DeleteReport)
	reports.Get("/:id/history", reportHandler.StatusHistory)
}
