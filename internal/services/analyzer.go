package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/models"
)

type AnalyzerService interface {
	Analyze(ctx context.Context, jdText string, resume []byte) (*models.AnalysisResponse, error)
	Model() string
}

type analyzerService struct {
	pdfParser     PDFParserService
	geminiService GeminiService
	promptBuilder *PromptBuilder
	knowledge     MarketKnowledgeService
	topK          int
	logger        *zap.Logger
}

// NewAnalyzerService wires the analysis pipeline. knowledge may be nil, in
// which case no market context is retrieved.
func NewAnalyzerService(
	pdfParser PDFParserService,
	geminiService GeminiService,
	promptBuilder *PromptBuilder,
	knowledge MarketKnowledgeService,
	topK int,
	log *zap.Logger,
) AnalyzerService {
	if topK <= 0 {
		topK = 3
	}

	return &analyzerService{
		pdfParser:     pdfParser,
		geminiService: geminiService,
		promptBuilder: promptBuilder,
		knowledge:     knowledge,
		topK:          topK,
		logger:        logger.OrNop(log),
	}
}

// Analyze extracts the resume text, prompts the model and parses its reply.
// The first failing step ends the run and its typed error is returned as is.
func (a *analyzerService) Analyze(ctx context.Context, jdText string, resume []byte) (*models.AnalysisResponse, error) {
	resumeText, err := a.pdfParser.ExtractText(resume)
	if err != nil {
		return nil, err
	}

	req := models.AnalysisRequest{
		ResumeText: resumeText,
		JDText:     jdText,
	}

	a.logger.Debug("resume text extracted",
		zap.Int("resume_chars", len(req.ResumeText)),
		zap.Int("jd_chars", len(req.JDText)))

	marketContext := a.retrieveMarketContext(ctx, req.JDText)
	prompt := a.promptBuilder.BuildAnalysisPromptWithContext(req.JDText, req.ResumeText, marketContext)

	reply, err := a.geminiService.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := ParseAnalysis(reply)
	if err != nil {
		a.logger.Warn("unusable model reply",
			zap.Error(err),
			zap.String("reply", logger.TruncateForLog(reply, 500)))
		return nil, err
	}

	a.logger.Info("analysis completed",
		zap.Int("score", result.Score),
		zap.String("verdict", string(result.Verdict)))

	return result, nil
}

func (a *analyzerService) Model() string {
	return a.geminiService.Model()
}

// retrieveMarketContext returns guidance relevant to the JD, or "" when the
// knowledge base is disabled or unreachable.
func (a *analyzerService) retrieveMarketContext(ctx context.Context, jdText string) string {
	if a.knowledge == nil {
		return ""
	}

	results, err := a.searchGuidance(ctx, jdText)
	if err != nil {
		a.logger.Warn("market context retrieval failed, continuing without it", zap.Error(err))
		return ""
	}

	return FormatMarketContext(results)
}

func (a *analyzerService) searchGuidance(ctx context.Context, jdText string) ([]SearchResult, error) {
	embedding, err := a.geminiService.GenerateEmbedding(ctx, jdText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	return a.knowledge.SearchSimilar(ctx, embedding, DocTypeMarketGuidance, a.topK)
}
