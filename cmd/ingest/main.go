package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/config"
	applog "alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/market"
	"alfredoptarigan/ats-analyzer/internal/services"
)

var (
	replace   bool
	chunkSize int
	overlap   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Load market guidance into the Qdrant knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&replace, "replace", true, "remove snippets previously stored for the same source")

	builtinCmd := &cobra.Command{
		Use:   "builtin",
		Short: "Ingest the built-in guidance of the configured market region",
		Args:  cobra.NoArgs,
		RunE:  runBuiltin,
	}

	pdfCmd := &cobra.Command{
		Use:   "pdf <file.pdf>...",
		Short: "Extract, chunk and ingest guidance PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPDF,
	}
	pdfCmd.Flags().IntVar(&chunkSize, "chunk-size", 1000, "maximum chunk size in characters")
	pdfCmd.Flags().IntVar(&overlap, "overlap", 100, "characters carried over between chunks")

	rootCmd.AddCommand(builtinCmd, pdfCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBuiltin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, zl, ingestor, err := setup(ctx)
	if err != nil {
		return err
	}
	defer zl.Sync()

	profile := market.ForRegion(cfg.Market.Region)
	snippets := profile.Guidance()
	if len(snippets) == 0 {
		return fmt.Errorf("no built-in guidance for region %q", profile.Region)
	}

	stored, err := ingestor.IngestSnippets(ctx, "builtin:"+profile.Region, snippets, replace)
	if err != nil {
		return err
	}

	fmt.Printf("Stored %d guidance snippets for the %s market\n", stored, profile.Region)
	return nil
}

func runPDF(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, zl, ingestor, err := setup(ctx)
	if err != nil {
		return err
	}
	defer zl.Sync()

	var failed int
	for _, path := range args {
		stored, err := ingestor.IngestPDF(ctx, path, replace)
		if err != nil {
			zl.Error("failed to ingest document", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		fmt.Printf("%s: stored %d chunks\n", path, stored)
	}

	fmt.Printf("Ingested %d of %d documents\n", len(args)-failed, len(args))
	if failed > 0 {
		return errors.New("some documents could not be ingested")
	}
	return nil
}

func setup(ctx context.Context) (*config.Config, *zap.Logger, *services.MarketIngestor, error) {
	cfg := config.Load()

	zl, err := applog.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	if !cfg.KnowledgeBaseEnabled() {
		return nil, nil, nil, errors.New("QDRANT_URL is not set")
	}

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
	if err != nil {
		return nil, nil, nil, err
	}

	knowledge, err := services.NewMarketKnowledgeService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zl)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := knowledge.InitCollection(ctx); err != nil {
		return nil, nil, nil, err
	}

	ingestor := services.NewMarketIngestor(
		knowledge,
		geminiService,
		services.NewPDFParserService(),
		services.NewTextChunker(),
		chunkSize,
		overlap,
		zl,
	)

	return cfg, zl, ingestor, nil
}
