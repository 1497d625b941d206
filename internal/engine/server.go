package engine

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// APIPrefix is the path under which the engine contract is served.
const APIPrefix = "/api"

// maxRequestBody bounds the size of an analyze request.
const maxRequestBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler serves engine over the JSON contract:
//
//	GET  /api/analyzers -> [AnalyzerDescriptor]
//	POST /api/analyze   -> AnalysisResult
//
// Request errors are answered with 400 and everything else with 500, both as {"error": "..."}.
// Responses allow any origin.
func NewHandler(engine Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{engine: engine, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+APIPrefix+"/analyzers", h.listAnalyzers)
	mux.HandleFunc("POST "+APIPrefix+"/analyze", h.analyze)
	mux.HandleFunc("OPTIONS "+APIPrefix+"/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return withCORS(mux)
}

type handler struct {
	engine Engine
	logger *slog.Logger
}

func (h *handler) listAnalyzers(w http.ResponseWriter, r *http.Request) {
	descriptors, err := h.engine.ListAnalyzers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if descriptors == nil {
		descriptors = []domain.AnalyzerDescriptor{}
	}
	writeJSON(w, http.StatusOK, descriptors)
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	ctx := domain.WithRequestID(r.Context(), id)

	var req domain.AnalysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.fail(w, r, badRequest("invalid request body: %v", err))
		return
	}

	result, err := h.engine.Analyze(ctx, req)
	if err != nil {
		h.fail(w, r.WithContext(ctx), err)
		return
	}

	h.logger.Debug("Analyzed",
		"request_id", id,
		"analyzer", result.AnalyzerUsed,
		"index_tokens", len(result.IndexTokens),
		"query_tokens", len(result.QueryTokens),
		"matching", len(result.MatchingTokens))
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrBadRequest) {
		status = http.StatusBadRequest
	}
	h.logger.Warn("Engine request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", domain.RequestID(r.Context()),
		"status", status,
		"error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, "+RequestIDHeader)
		next.ServeHTTP(w, r)
	})
}
