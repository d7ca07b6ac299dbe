package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ats-analyzer/internal/models"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

type AnalysisRepository interface {
	Create(record *models.AnalysisRecord) error
	FindByID(id uuid.UUID) (*models.AnalysisRecord, error)
	FindRecent(limit int) ([]models.AnalysisRecord, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(record *models.AnalysisRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uuid.UUID) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &record, nil
}

// FindRecent returns up to limit analyses, newest first.
func (r *analysisRepository) FindRecent(limit int) ([]models.AnalysisRecord, error) {
	var records []models.AnalysisRecord
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	return records, nil
}
