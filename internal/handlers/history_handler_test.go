package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/repositories"
)

type fakeAnalysisRepo struct {
	records   []models.AnalysisRecord
	err       error
	lastLimit int
}

func (f *fakeAnalysisRepo) Create(record *models.AnalysisRecord) error {
	f.records = append(f.records, *record)
	return f.err
}

func (f *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.AnalysisRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			return &f.records[i], nil
		}
	}
	return nil, repositories.ErrAnalysisNotFound
}

func (f *fakeAnalysisRepo) FindRecent(limit int) ([]models.AnalysisRecord, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func newHistoryApp(repo repositories.AnalysisRepository) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Register(app,
		NewAnalyzeHandler(&fakeAnalyzer{result: strongResult()}, nil, 0, zap.NewNop()),
		NewHistoryHandler(repo, zap.NewNop()))
	return app
}

func seededRepo() (*fakeAnalysisRepo, uuid.UUID) {
	record := models.NewAnalysisRecord("Go developer", "cv.pdf", "gemini-2.5-flash", strongResult())
	return &fakeAnalysisRepo{records: []models.AnalysisRecord{*record}}, record.ID
}

func TestHandleGetAnalysis(t *testing.T) {
	repo, id := seededRepo()
	app := newHistoryApp(repo)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/analyses/"+id.String(), nil))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	if body["id"] != id.String() || body["verdict"] != string(models.VerdictStrong) {
		t.Fatalf("unexpected body: %v", body)
	}

	status, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/analyses/"+uuid.NewString(), nil))
	if status != http.StatusNotFound || body["error"] != "Analysis not found" {
		t.Fatalf("expected 404, got %d: %v", status, body)
	}

	status, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/analyses/not-a-uuid", nil))
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", status, body)
	}
}

func TestHandleGetAnalysisRepoError(t *testing.T) {
	app := newHistoryApp(&fakeAnalysisRepo{err: errors.New("connection refused")})

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/analyses/"+uuid.NewString(), nil))
	if status != http.StatusInternalServerError || body["error"] == "" {
		t.Fatalf("expected 500, got %d: %v", status, body)
	}
}

func TestHandleListAnalyses(t *testing.T) {
	tests := []struct {
		query     string
		wantLimit int
	}{
		{"", defaultHistoryLimit},
		{"?limit=5", 5},
		{"?limit=0", defaultHistoryLimit},
		{"?limit=5000", maxHistoryLimit},
		{"?limit=abc", defaultHistoryLimit},
	}

	for _, tt := range tests {
		repo, _ := seededRepo()
		app := newHistoryApp(repo)

		status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/analyses"+tt.query, nil))
		if status != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", tt.query, status)
		}
		if repo.lastLimit != tt.wantLimit {
			t.Errorf("%q: limit = %d, want %d", tt.query, repo.lastLimit, tt.wantLimit)
		}
		if body["count"] != float64(1) {
			t.Errorf("%q: unexpected count: %v", tt.query, body["count"])
		}
	}
}

func TestHandleListAnalysesEmpty(t *testing.T) {
	app := newHistoryApp(&fakeAnalysisRepo{})

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/analyses", nil))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	list, ok := body["analyses"].([]any)
	if !ok || len(list) != 0 {
		t.Fatalf("expected empty array, got %v", body["analyses"])
	}
}

func TestRoutesWithoutHistory(t *testing.T) {
	app := newTestApp(&fakeAnalyzer{result: strongResult()}, nil, 0)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if status != http.StatusOK || body["status"] != "healthy" {
		t.Fatalf("unexpected health response: %d %v", status, body)
	}

	status, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/analyses", nil))
	if status != http.StatusNotFound || body["error"] == nil {
		t.Fatalf("history routes should not exist without history: %d %v", status, body)
	}

	status, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if status != http.StatusOK {
		t.Fatalf("unexpected root status: %d", status)
	}
	if endpoints, _ := body["endpoints"].([]any); len(endpoints) != 2 {
		t.Fatalf("unexpected endpoints: %v", body["endpoints"])
	}
}
