package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sciencestudio/libris/internal/embedding"
	"github.com/sciencestudio/libris/internal/extract"
	"github.com/sciencestudio/libris/internal/index"
	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/store"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(query.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}
	if query.Limit <= 0 {
		query.Limit = s.config.Index.DefaultLimit
	}
	if query.Limit > s.config.Index.MaxLimit {
		query.Limit = s.config.Index.MaxLimit
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

type ingestTextRequest struct {
	Source string `json:"source"`
	Text   string `json:"text"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

func (s *Server) handleIngestText(w http.ResponseWriter, r *http.Request) {
	var req ingestTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ingest request", zap.String("source", req.Source), zap.String("title", req.Title))
	result, err := s.manager.Ingest(r.Context(), req.Source, req.Text, models.DocumentMeta{
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		s.logger.Error("ingest failed", zap.String("source", req.Source), zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

type ingestFileRequest struct {
	Path   string `json:"path"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

func (s *Server) handleIngestFile(w http.ResponseWriter, r *http.Request) {
	var req ingestFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ext := strings.ToLower(filepath.Ext(abs))
	text, err := s.extractor.ExtractBytes(content, ext)
	if err != nil {
		s.logger.Error("extraction failed", zap.String("path", abs), zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta := models.DocumentMeta{Title: req.Title, Author: req.Author}
	fillMetadata(&meta, content, ext)

	result, err := s.manager.Ingest(r.Context(), abs, text, meta)
	if err != nil {
		s.logger.Error("ingest failed", zap.String("source", abs), zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.catalog.ListDocuments(r.Context())
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": summaries,
		"total":     len(summaries),
	})
}

func (s *Server) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		s.respondError(w, http.StatusBadRequest, "source is required")
		return
	}
	s.logger.Debug("remove document request", zap.String("source", source))
	result, err := s.catalog.Remove(r.Context(), source)
	if err != nil {
		if !errors.Is(err, index.ErrNotFound) {
			s.logger.Error("remove failed", zap.String("source", source), zap.Error(err))
		}
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chunks, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	summaries, err := s.catalog.ListDocuments(ctx)
	if err != nil {
		s.logger.Error("status: list documents failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}

	resp := map[string]interface{}{
		"documents": len(summaries),
		"chunks":    chunks,
	}
	configInfo := map[string]interface{}{
		"embedding_dimensions": s.config.Embedding.Dimensions,
		"chunk_size":           s.config.Index.ChunkSize,
		"chunk_overlap":        s.config.Index.ChunkOverlap,
		"database_path":        s.config.Storage.DatabasePath,
	}
	if usage, err := store.DatabaseDiskUsage(s.config.Storage.DatabasePath); err == nil {
		resp["disk_usage_bytes"] = usage
	}
	if s.watch != nil {
		resp["watched_directories"] = s.watch.Directories()
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

// fillMetadata fills empty title/author fields from the document's own
// embedded metadata.
func fillMetadata(meta *models.DocumentMeta, content []byte, ext string) {
	title, author := extract.FileMetadata(content, ext)
	if meta.Title == "" {
		meta.Title = title
	}
	if meta.Author == "" {
		meta.Author = author
	}
}

// statusForError maps domain errors to HTTP status codes: bad input is 400,
// a missing document is 404, an unreachable embedder or store is 503.
func statusForError(err error) int {
	switch {
	case errors.Is(err, index.ErrEmptySource),
		errors.Is(err, index.ErrEmptyContent),
		errors.Is(err, index.ErrNoChunks),
		errors.Is(err, index.ErrInvalidChunking):
		return http.StatusBadRequest
	case errors.Is(err, index.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, embedding.ErrUnavailable),
		errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
