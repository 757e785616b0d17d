package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/todmy/pdf-eval/internal/analysis"
	"github.com/todmy/pdf-eval/internal/association"
	"github.com/todmy/pdf-eval/internal/report"
)

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.dataset)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.analysis.Tables(s.dataset)
	if err != nil {
		log.Printf("Failed to build tables: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to build tables")
		return
	}
	if tables == nil {
		tables = []analysis.NamedTable{}
	}

	respondJSON(w, http.StatusOK, tables)
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	table, ok, err := s.analysis.Table(s.dataset, name)
	if err != nil {
		log.Printf("Failed to build table %s: %v", name, err)
		respondError(w, http.StatusInternalServerError, "failed to build table")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "table not found")
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report.NamedTableMarkdown(table)))
		return
	}

	respondJSON(w, http.StatusOK, table)
}

type findingResponse struct {
	Description string              `json:"desc"`
	Result      *association.Result `json:"result,omitempty"`
	Error       string              `json:"error,omitempty"`
}

func (s *Server) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	findings := s.analysis.Statistics(s.dataset)

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report.StatisticsMarkdown(findings)))
		return
	}

	resp := make([]findingResponse, 0, len(findings))
	for _, f := range findings {
		fr := findingResponse{Description: f.Description, Error: f.Reason()}
		if f.Err == nil {
			result := f.Result
			fr.Result = &result
		}
		resp = append(resp, fr)
	}

	respondJSON(w, http.StatusOK, resp)
}
