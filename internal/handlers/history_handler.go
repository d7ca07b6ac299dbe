package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	repo   repositories.AnalysisRepository
	logger *zap.Logger
}

func NewHistoryHandler(repo repositories.AnalysisRepository, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		logger: logger.OrNop(log),
	}
}

// HandleGetAnalysis handles GET /api/analyses/:id
func (h *HistoryHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid analysis ID format",
		})
	}

	record, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAnalysisNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Analysis not found",
			})
		}

		h.logger.Error("failed to load analysis", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Failed to load analysis",
		})
	}

	return c.JSON(record)
}

// HandleListAnalyses handles GET /api/analyses
func (h *HistoryHandler) HandleListAnalyses(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.repo.FindRecent(limit)
	if err != nil {
		h.logger.Error("failed to list analyses", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Failed to list analyses",
		})
	}

	if records == nil {
		records = []models.AnalysisRecord{}
	}

	return c.JSON(models.HistoryListResponse{
		Analyses: records,
		Count:    len(records),
	})
}
