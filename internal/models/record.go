package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AnalysisRecord is the persisted form of a finished analysis, written only
// when history is enabled.
type AnalysisRecord struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JDText             string         `gorm:"type:text" json:"jd_text"`
	ResumeFilename     string         `gorm:"type:text" json:"resume_filename,omitempty"`
	ResumeOriginalName string         `gorm:"type:text" json:"resume_original_name"`
	Score              int            `gorm:"not null" json:"score"`
	Verdict            Verdict        `gorm:"type:text;not null" json:"verdict"`
	MissingKeywords    pq.StringArray `gorm:"type:text[]" json:"missing_keywords"`
	MarketTips         pq.StringArray `gorm:"type:text[]" json:"indian_market_tips"`
	Model              string         `gorm:"type:text" json:"model"`
	CreatedAt          time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analyses"
}

// NewAnalysisRecord copies a result into a record ready to be stored.
func NewAnalysisRecord(jdText, originalName, model string, result *AnalysisResponse) *AnalysisRecord {
	return &AnalysisRecord{
		ID:                 uuid.New(),
		JDText:             jdText,
		ResumeOriginalName: originalName,
		Score:              result.Score,
		Verdict:            result.Verdict,
		MissingKeywords:    pq.StringArray(append([]string(nil), result.MissingKeywords...)),
		MarketTips:         pq.StringArray(append([]string(nil), result.IndianMarketTips...)),
		Model:              model,
		CreatedAt:          time.Now(),
	}
}

type HistoryListResponse struct {
	Analyses []AnalysisRecord `json:"analyses"`
	Count    int              `json:"count"`
}
