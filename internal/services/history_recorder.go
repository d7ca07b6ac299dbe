package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/repositories"
)

// HistoryEntry is a finished analysis waiting to be persisted.
type HistoryEntry struct {
	JDText     string
	ResumeName string
	Resume     []byte
	Model      string
	Result     *models.AnalysisResponse
}

// HistoryRecorder persists finished analyses off the request path.
type HistoryRecorder interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(entry HistoryEntry) bool
}

type historyRecorder struct {
	repo        repositories.AnalysisRepository
	storage     StorageService
	queue       chan HistoryEntry
	concurrency int
	logger      *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewHistoryRecorder builds a recorder. storage may be nil, in which case
// resumes are not archived.
func NewHistoryRecorder(
	repo repositories.AnalysisRepository,
	storage StorageService,
	concurrency int,
	queueSize int,
	log *zap.Logger,
) HistoryRecorder {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	return &historyRecorder{
		repo:        repo,
		storage:     storage,
		queue:       make(chan HistoryEntry, queueSize),
		concurrency: concurrency,
		logger:      logger.OrNop(log),
	}
}

func (h *historyRecorder) Start(ctx context.Context) {
	h.logger.Info("starting history recorder", zap.Int("workers", h.concurrency))

	for i := 0; i < h.concurrency; i++ {
		h.wg.Add(1)
		go h.process(ctx, i+1)
	}
}

// Stop rejects new entries, drains the queue and waits for the workers.
func (h *historyRecorder) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	close(h.queue)
	h.mu.Unlock()

	h.wg.Wait()
	h.logger.Info("history recorder stopped")
}

// Enqueue never blocks; it reports false when the entry was dropped.
func (h *historyRecorder) Enqueue(entry HistoryEntry) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.stopped {
		h.logger.Warn("history recorder stopped, dropping analysis")
		return false
	}

	select {
	case h.queue <- entry:
		return true
	default:
		h.logger.Warn("history queue full, dropping analysis", zap.Int("capacity", cap(h.queue)))
		return false
	}
}

func (h *historyRecorder) process(ctx context.Context, workerID int) {
	defer h.wg.Done()

	for entry := range h.queue {
		if err := ctx.Err(); err != nil {
			h.logger.Warn("context done, discarding analysis", zap.Int("worker", workerID), zap.Error(err))
			continue
		}

		record, err := h.record(entry)
		if err != nil {
			h.logger.Error("failed to record analysis", zap.Int("worker", workerID), zap.Error(err))
			continue
		}

		h.logger.Debug("analysis recorded", zap.Int("worker", workerID), zap.String("id", record.ID.String()))
	}
}

func (h *historyRecorder) record(entry HistoryEntry) (*models.AnalysisRecord, error) {
	record := models.NewAnalysisRecord(entry.JDText, entry.ResumeName, entry.Model, entry.Result)

	if h.storage != nil && len(entry.Resume) > 0 {
		filename, _, err := h.storage.SaveBytes(entry.Resume, "resume")
		if err != nil {
			h.logger.Warn("failed to archive resume", zap.Error(err))
		} else {
			record.ResumeFilename = filename
		}
	}

	if err := h.repo.Create(record); err != nil {
		if record.ResumeFilename != "" {
			if delErr := h.storage.DeleteFile(record.ResumeFilename); delErr != nil {
				h.logger.Warn("failed to remove archived resume",
					zap.String("filename", record.ResumeFilename),
					zap.Error(delErr))
			}
		}
		return nil, err
	}

	return record, nil
}
