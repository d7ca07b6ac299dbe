package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

const (
	fieldResume = "resume"
	fieldJD     = "jd_text"

	msgMissingInput = "Missing resume or JD"
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	recorder    services.HistoryRecorder
	maxFileSize int64
	logger      *zap.Logger
}

// NewAnalyzeHandler builds the handler. recorder may be nil when history is disabled.
func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	recorder services.HistoryRecorder,
	maxFileSize int64,
	log *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		recorder:    recorder,
		maxFileSize: maxFileSize,
		logger:      logger.OrNop(log),
	}
}

// HandleAnalyze handles POST /api/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	// Fiber reuses request buffers; the JD outlives the handler in the recorder.
	jdText := utils.CopyString(c.FormValue(fieldJD))
	resumeFile, err := c.FormFile(fieldResume)
	if err != nil || resumeFile == nil || strings.TrimSpace(jdText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: msgMissingInput,
		})
	}

	if h.maxFileSize > 0 && resumeFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	resume, err := readUpload(resumeFile)
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), jdText, resume)
	if err != nil {
		return h.fail(c, err)
	}

	if h.recorder != nil {
		h.recorder.Enqueue(services.HistoryEntry{
			JDText:     jdText,
			ResumeName: resumeFile.Filename,
			Resume:     resume,
			Model:      h.analyzer.Model(),
			Result:     result,
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AnalyzeHandler) fail(c *fiber.Ctx, err error) error {
	status := services.StatusCode(err)

	h.logger.Error("analysis failed",
		zap.Int("status", status),
		zap.String("kind", services.ErrorKindOf(err)),
		zap.Error(err))

	return c.Status(status).JSON(models.ErrorResponse{
		Error: fmt.Sprintf("AI Analysis failed: %s", err.Error()),
	})
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}
