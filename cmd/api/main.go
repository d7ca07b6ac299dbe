package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/config"
	"alfredoptarigan/ats-analyzer/internal/handlers"
	applog "alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/market"
	"alfredoptarigan/ats-analyzer/internal/repositories"
	"alfredoptarigan/ats-analyzer/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := applog.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
	if err != nil {
		zl.Fatal("failed to initialize Gemini", zap.Error(err))
	}
	zl.Info("gemini initialized", zap.String("model", geminiService.Model()))

	var knowledge services.MarketKnowledgeService
	if cfg.KnowledgeBaseEnabled() {
		kb, err := services.NewMarketKnowledgeService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zl)
		if err != nil {
			zl.Fatal("failed to initialize Qdrant", zap.Error(err))
		}
		if err := kb.InitCollection(ctx); err != nil {
			zl.Fatal("failed to initialize Qdrant collection", zap.Error(err))
		}
		knowledge = kb
		zl.Info("market knowledge base enabled", zap.String("collection", cfg.Qdrant.Collection))
	}

	profile := market.ForRegion(cfg.Market.Region)
	analyzer := services.NewAnalyzerService(
		pdfParser,
		geminiService,
		services.NewPromptBuilder(profile),
		knowledge,
		cfg.Qdrant.TopK,
		zl,
	)
	zl.Info("analyzer initialized", zap.String("region", profile.Region))

	var (
		recorder       services.HistoryRecorder
		historyHandler *handlers.HistoryHandler
	)
	if cfg.Database.HistoryEnabled {
		db, err := config.InitDatabase(cfg, zl)
		if err != nil {
			zl.Fatal("failed to initialize database", zap.Error(err))
		}

		storageService := services.NewStorageService(cfg.Storage.UploadPath)
		if err := storageService.EnsureUploadDir(); err != nil {
			zl.Fatal("failed to create upload directory", zap.Error(err))
		}

		analysisRepo := repositories.NewAnalysisRepository(db)
		recorder = services.NewHistoryRecorder(analysisRepo, storageService, cfg.Worker.Concurrency, cfg.Worker.QueueSize, zl)
		// Not tied to the signal context so Stop can drain queued entries.
		recorder.Start(context.Background())
		historyHandler = handlers.NewHistoryHandler(analysisRepo, zl)
		zl.Info("analysis history enabled")
	}

	analyzeHandler := handlers.NewAnalyzeHandler(analyzer, recorder, cfg.Storage.MaxFileSize, zl)

	app := newApp(analyzeHandler, historyHandler, cfg.Storage.MaxFileSize)

	go func() {
		<-ctx.Done()
		zl.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}

	if recorder != nil {
		recorder.Stop()
	}
}

// newApp builds the Fiber app with middleware and routes. historyHandler may be nil.
func newApp(analyzeHandler *handlers.AnalyzeHandler, historyHandler *handlers.HistoryHandler, maxFileSize int64) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(maxFileSize) + 1<<20, // room for jd_text and multipart framing
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.Register(app, analyzeHandler, historyHandler)
	return app
}
