package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/logger"
)

// MarketIngestor embeds guidance text and stores it in the knowledge base.
type MarketIngestor struct {
	knowledge     MarketKnowledgeService
	geminiService GeminiService
	pdfParser     PDFParserService
	chunker       TextChunker
	chunkSize     int
	overlap       int
	logger        *zap.Logger
}

func NewMarketIngestor(
	knowledge MarketKnowledgeService,
	geminiService GeminiService,
	pdfParser PDFParserService,
	chunker TextChunker,
	chunkSize, overlap int,
	log *zap.Logger,
) *MarketIngestor {
	return &MarketIngestor{
		knowledge:     knowledge,
		geminiService: geminiService,
		pdfParser:     pdfParser,
		chunker:       chunker,
		chunkSize:     chunkSize,
		overlap:       overlap,
		logger:        logger.OrNop(log),
	}
}

// IngestSnippets stores each non-blank snippet under source. With replace
// set, earlier snippets from the same source are removed first.
func (m *MarketIngestor) IngestSnippets(ctx context.Context, source string, snippets []string, replace bool) (int, error) {
	if replace {
		if err := m.knowledge.DeleteSource(ctx, source); err != nil {
			return 0, err
		}
	}

	stored := 0
	for i, snippet := range snippets {
		snippet = strings.TrimSpace(snippet)
		if snippet == "" {
			continue
		}

		embedding, err := m.geminiService.GenerateEmbedding(ctx, snippet)
		if err != nil {
			return stored, fmt.Errorf("embed snippet %d of %s: %w", i+1, source, err)
		}

		if err := m.knowledge.UpsertSnippet(ctx, source, DocTypeMarketGuidance, snippet, embedding); err != nil {
			return stored, fmt.Errorf("store snippet %d of %s: %w", i+1, source, err)
		}
		stored++
	}

	m.logger.Info("guidance ingested", zap.String("source", source), zap.Int("snippets", stored))
	return stored, nil
}

// IngestPDF extracts, chunks and stores a guidance PDF. The file's base
// name is used as its source.
func (m *MarketIngestor) IngestPDF(ctx context.Context, path string, replace bool) (int, error) {
	content, err := m.pdfParser.ExtractFile(path)
	if err != nil {
		return 0, err
	}

	chunks := m.chunker.ChunkText(CleanText(content.Text), m.chunkSize, m.overlap)
	m.logger.Info("guidance document chunked",
		zap.String("path", path),
		zap.Int("pages", content.PageCount),
		zap.Int("chunks", len(chunks)))

	return m.IngestSnippets(ctx, filepath.Base(path), chunks, replace)
}
