package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sciencestudio/libris/internal/config"
	"github.com/sciencestudio/libris/internal/embedding"
	"github.com/sciencestudio/libris/internal/index"
	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/search"
	"github.com/sciencestudio/libris/internal/store"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	st := store.NewMemoryStore()
	em := embedding.NewMockEmbedder(8)
	t.Cleanup(func() {
		_ = st.Close()
		_ = em.Close()
	})

	chunker, err := index.NewChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	manager := index.NewManager(st, em, chunker)
	catalog := index.NewCatalog(st, index.WithManagerLocks(manager))
	engine := search.NewEngine(st, em)

	srv := NewServer(engine, manager, catalog, st, cfg, zap.NewNop())
	return srv, srv.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestDocumentLifecycle(t *testing.T) {
	_, h := newTestServer(t)

	// Ingest.
	rec := doJSON(t, h, http.MethodPost, "/api/v1/documents", ingestTextRequest{
		Source: "/library/paper.pdf",
		Text:   "Quantum error correction protects logical qubits from decoherence.",
		Title:  "QEC Paper",
		Author: "Shor",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var ingest models.IngestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &ingest); err != nil {
		t.Fatal(err)
	}
	if ingest.Source != "/library/paper.pdf" || ingest.ChunksIndexed < 1 {
		t.Errorf("ingest result = %+v", ingest)
	}

	// Search finds it.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "qubits"})
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].Title != "QEC Paper" {
		t.Errorf("search response = %+v", resp)
	}

	// Listed in the catalog.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/documents", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Documents []*models.DocumentSummary `json:"documents"`
		Total     int                       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || list.Documents[0].Author != "Shor" {
		t.Errorf("list = %+v", list)
	}

	// Remove.
	rec = doJSON(t, h, http.MethodDelete, "/api/v1/documents?source=%2Flibrary%2Fpaper.pdf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Gone from the catalog; a second remove is a 404.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/documents", nil)
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Errorf("list after remove = %s", rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodDelete, "/api/v1/documents?source=%2Flibrary%2Fpaper.pdf", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second remove status = %d", rec.Code)
	}
}

func TestHandleSearch_badRequests(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank query status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", rec2.Code)
	}
}

func TestHandleSearch_emptyIndex(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "anything"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Total)
	}
}

func TestHandleIngestText_badInput(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/documents", ingestTextRequest{Source: "a.txt", Text: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty text status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/v1/documents", ingestTextRequest{Source: "", Text: "content"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty source status = %d", rec.Code)
	}
}

func TestHandleIngestFile(t *testing.T) {
	_, h := newTestServer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("Observations from the field survey."), 0600); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/v1/documents/file", ingestFileRequest{Path: path})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var ingest models.IngestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &ingest); err != nil {
		t.Fatal(err)
	}
	if ingest.Title != "notes" {
		t.Errorf("derived title = %q", ingest.Title)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/documents/file", ingestFileRequest{Path: filepath.Join(dir, "missing.txt")})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/v1/documents/file", ingestFileRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing path status = %d", rec.Code)
	}
}

func TestHandleRemove_requiresSource(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodDelete, "/api/v1/documents", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/documents", ingestTextRequest{
		Source: "a.txt",
		Text:   "short document",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status struct {
		Documents int `json:"documents"`
		Chunks    int `json:"chunks"`
		Config    struct {
			ChunkSize int `json:"chunk_size"`
		} `json:"config"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Documents != 1 || status.Chunks != 1 {
		t.Errorf("status = %+v", status)
	}
	if status.Config.ChunkSize == 0 {
		t.Error("config.chunk_size missing")
	}
}
