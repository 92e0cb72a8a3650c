package http

import (
	"cv-site/internal/logging"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewApp wires every route onto a fiber app.
func NewApp(h *Handler, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               "cv-site",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(logging.Middleware(logger))

	app.Get("/", h.Page)
	app.Get("/static/style.css", h.Stylesheet)
	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Get("/cv", h.GetCV)
	api.Get("/sections", h.GetSections)
	api.Get("/fields/personal-info", h.GetPersonalInfoFields)
	api.Get("/fields/:section", h.GetSectionFields)
	api.Post("/reload", h.Reload)

	app.Post("/reload", h.RetryReload)

	app.Post("/snapshots/start", h.StartSnapshot)
	app.Get("/snapshots", h.ListSnapshots)
	app.Get("/snapshots/:id", h.GetSnapshot)

	return app
}
