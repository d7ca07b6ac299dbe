package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GEMINI_MODEL", "MARKET_REGION", "MAX_FILE_SIZE",
		"HISTORY_ENABLED", "QDRANT_URL", "QDRANT_TOP_K", "WORKER_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Server.Port != "3000" {
		t.Fatalf("unexpected port: %q", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %q", cfg.Gemini.Model)
	}
	if cfg.Market.Region != "Indian" {
		t.Fatalf("unexpected region: %q", cfg.Market.Region)
	}
	if cfg.Storage.MaxFileSize != 10485760 {
		t.Fatalf("unexpected max file size: %d", cfg.Storage.MaxFileSize)
	}
	if cfg.Database.HistoryEnabled {
		t.Fatal("history should be disabled by default")
	}
	if cfg.KnowledgeBaseEnabled() {
		t.Fatal("knowledge base should be disabled without QDRANT_URL")
	}
	if cfg.Qdrant.TopK != 3 || cfg.Worker.Concurrency != 2 {
		t.Fatalf("unexpected numeric defaults: topK=%d concurrency=%d", cfg.Qdrant.TopK, cfg.Worker.Concurrency)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("HISTORY_ENABLED", "true")
	t.Setenv("QDRANT_URL", "http://qdrant:6334")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != "8080" || cfg.Gemini.APIKey != "secret" {
		t.Fatalf("overrides not applied: %+v", cfg.Server)
	}
	if !cfg.Database.HistoryEnabled {
		t.Fatal("expected history to be enabled")
	}
	if !cfg.KnowledgeBaseEnabled() {
		t.Fatal("expected knowledge base to be enabled")
	}
	if cfg.Storage.MaxFileSize != 2048 {
		t.Fatalf("unexpected max file size: %d", cfg.Storage.MaxFileSize)
	}
	if cfg.Worker.Concurrency != 2 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.Worker.Concurrency)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "ats",
	}}

	dsn := cfg.GetDatabaseDSN()
	for _, part := range []string{"host=db", "port=5433", "user=u", "password=p", "dbname=ats", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Fatalf("dsn %q missing %q", dsn, part)
		}
	}
}
