package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-analyzer/internal/models"
)

// Register mounts the API routes. history may be nil when history is disabled.
func Register(app *fiber.App, analyze *AnalyzeHandler, history *HistoryHandler) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/analyze", analyze.HandleAnalyze)

	endpoints := []string{"POST /api/analyze", "GET /api/health"}

	if history != nil {
		api.Get("/analyses", history.HandleListAnalyses)
		api.Get("/analyses/:id", history.HandleGetAnalysis)
		endpoints = append(endpoints, "GET /api/analyses", "GET /api/analyses/:id")
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "ATS Resume Analyzer API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	})
}

// ErrorHandler renders framework errors (unknown routes, oversized bodies,
// panics) in the same { "error": ... } shape as the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
	})
}
