package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/handlers"
	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

type stubAnalyzer struct {
	result *models.AnalysisResponse
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, jdText string, resume []byte) (*models.AnalysisResponse, error) {
	return s.result, s.err
}

func (s *stubAnalyzer) Model() string { return "stub-model" }

func analyzeForm(t *testing.T, jd string, resume []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("jd_text", jd); err != nil {
		t.Fatal(err)
	}
	part, err := writer.CreateFormFile("resume", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(resume); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestNewAppServesAnalyze(t *testing.T) {
	analyzer := &stubAnalyzer{result: &models.AnalysisResponse{
		Score:            71,
		MissingKeywords:  []string{},
		IndianMarketTips: []string{},
		Verdict:          models.VerdictModerate,
	}}
	app := newApp(handlers.NewAnalyzeHandler(analyzer, nil, 1<<20, zap.NewNop()), nil, 1<<20)

	resp, err := app.Test(analyzeForm(t, "Go developer", []byte("%PDF-1.4")), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result models.AnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Score != 71 || result.Verdict != models.VerdictModerate {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestNewAppPropagatesProviderStatus(t *testing.T) {
	analyzer := &stubAnalyzer{err: &services.ProviderError{Status: http.StatusTooManyRequests, Err: errors.New("quota exceeded")}}
	app := newApp(handlers.NewAnalyzeHandler(analyzer, nil, 1<<20, zap.NewNop()), nil, 1<<20)

	resp, err := app.Test(analyzeForm(t, "Go developer", []byte("%PDF-1.4")), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}

func TestNewAppHealthAndCORS(t *testing.T) {
	app := newApp(handlers.NewAnalyzeHandler(&stubAnalyzer{}, nil, 1<<20, zap.NewNop()), nil, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3001")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header, got %q", got)
	}
}
