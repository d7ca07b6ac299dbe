package services

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strings"

	"alfredoptarigan/ats-analyzer/internal/models"
)

var codeFence = regexp.MustCompile("(?i)```json|```")

// CleanModelOutput strips markdown code fences from a model reply.
func CleanModelOutput(raw string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))
}

// rawAnalysis mirrors AnalysisResponse with optional fields so missing
// values can be told apart from zero values.
type rawAnalysis struct {
	Score            *float64 `json:"score"`
	MissingKeywords  []string `json:"missing_keywords"`
	IndianMarketTips []string `json:"indian_market_tips"`
	Verdict          *string  `json:"verdict"`
}

// ParseAnalysis cleans a model reply, decodes it and checks it against the
// analysis schema. Invalid JSON yields *ParseError; JSON of the wrong shape
// yields *ParseError or *SchemaError.
func ParseAnalysis(raw string) (*models.AnalysisResponse, error) {
	cleaned := CleanModelOutput(raw)
	if cleaned == "" {
		return nil, &ParseError{Err: errors.New("empty response")}
	}

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &ParseError{Err: err}
	}

	return validateAnalysis(&parsed)
}

func validateAnalysis(parsed *rawAnalysis) (*models.AnalysisResponse, error) {
	if parsed.Score == nil {
		return nil, &SchemaError{Field: "score", Reason: "is missing"}
	}

	score := math.Round(*parsed.Score)
	if score < models.MinScore || score > models.MaxScore {
		return nil, &SchemaError{Field: "score", Reason: "must be between 0 and 100"}
	}

	if parsed.Verdict == nil {
		return nil, &SchemaError{Field: "verdict", Reason: "is missing"}
	}

	verdict := models.Verdict(strings.TrimSpace(*parsed.Verdict))
	if !verdict.Valid() {
		return nil, &SchemaError{Field: "verdict", Reason: "must be one of Strong Match, Moderate Match, Weak Match"}
	}

	result := &models.AnalysisResponse{
		Score:            int(score),
		MissingKeywords:  parsed.MissingKeywords,
		IndianMarketTips: parsed.IndianMarketTips,
		Verdict:          verdict,
	}

	if result.MissingKeywords == nil {
		result.MissingKeywords = []string{}
	}
	if result.IndianMarketTips == nil {
		result.IndianMarketTips = []string{}
	}

	return result, nil
}
