// Package httpadapter exposes the ingestion and retrieval surface over HTTP.
package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avilov/docsearch/internal/config"
	"github.com/avilov/docsearch/internal/core/domain"
	"github.com/avilov/docsearch/internal/core/ports"
	"github.com/avilov/docsearch/internal/observability/metrics"
)

// maxUploadMemory bounds the multipart buffer held in memory; larger parts
// spill to temp files.
const maxUploadMemory = 32 << 20

type Router struct {
	ingestUC ports.DocumentIngestor
	queryUC  ports.DocumentQueryService
	metrics  *metrics.HTTPServerMetrics
	cfg      config.Config
}

func NewRouter(
	ingestUC ports.DocumentIngestor,
	queryUC ports.DocumentQueryService,
	serverMetrics *metrics.HTTPServerMetrics,
	cfg config.Config,
) *Router {
	return &Router{
		ingestUC: ingestUC,
		queryUC:  queryUC,
		metrics:  serverMetrics,
		cfg:      cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.downloadDocument)
	mux.HandleFunc("/v1/search", rt.searchKeyword)
	mux.HandleFunc("/v1/search/semantic", rt.searchSemantic)

	var handler http.Handler = mux
	handler = rt.metrics.Middleware(handler)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, 50*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	mediaType := normalizeMediaType(fileHeader.Header.Get("Content-Type"))

	start := time.Now()
	doc, err := rt.ingestUC.Upload(r.Context(), fileHeader.Filename, mediaType, file)
	strategy := string(domain.SelectStrategy(mediaType))
	if err != nil {
		rt.metrics.RecordIngest(strategy, "error", time.Since(start))
		writeError(w, err)
		return
	}
	rt.metrics.RecordIngest(strategy, "ok", time.Since(start))

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           doc.ID,
		"filename":     doc.Filename,
		"content_type": doc.ContentType,
		"type":         doc.DocType,
	})
}

func (rt *Router) downloadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rawID := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id must be an integer"})
		return
	}

	doc, artifact, err := rt.queryUC.OpenArtifact(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer artifact.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	if _, err := io.Copy(w, artifact); err != nil {
		slog.Warn("stream artifact", "document_id", id, "error", err)
	}
}

func (rt *Router) searchKeyword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	results, err := rt.queryUC.SearchKeyword(r.Context(), r.URL.Query().Get("keyword"), parseLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	rt.metrics.RecordSearch("keyword")
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (rt *Router) searchSemantic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	results, err := rt.queryUC.SearchSemantic(r.Context(), r.URL.Query().Get("q"), parseLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	rt.metrics.RecordSearch("semantic")
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// normalizeMediaType strips parameters like charset so strategy selection
// sees the bare type.
func normalizeMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
