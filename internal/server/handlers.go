package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/reviewlens/reviewlens/apimodels"
)

// Analysis failures are returned as data with HTTP 200; the error field is
// for the UI to render, not interpret. Only malformed requests get a 4xx.

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"providers": s.analyzer.AvailableProviders()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	if req.Provider == "" || req.Provider == "all" {
		writeJSON(w, s.analyzer.AnalyzeAll(r.Context(), req.Code, req.Language))
		return
	}
	writeJSON(w, s.analyzer.AnalyzeSnippet(r.Context(), req.Code, req.Provider, req.Language))
}

func (s *Server) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.analyzer.AnalyzeAll(r.Context(), req.Code, req.Language))
}

func (s *Server) handleAnalyzeRepository(w http.ResponseWriter, r *http.Request) {
	var req apimodels.RepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.analyzer.AnalyzeRepository(r.Context(), req.URL, req.Provider))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req apimodels.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	writeJSON(w, s.analyzer.Compare(req.Results))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
