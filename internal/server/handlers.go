package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nao1215/lexscan/internal/compliance"
)

// Hints of the config status endpoint.
const (
	hintEnabled  = "已启用"
	hintDisabled = "未启用：请配置 lexicon_dir 或运行 lexscan lexicon download"
)

// CheckRequest is the body of the check-compliance endpoint.
// Title may be omitted, content may not.
type CheckRequest struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
}

// SensitiveStatus reports whether sensitive word checks run.
type SensitiveStatus struct {
	Enabled      bool                       `json:"enabled"`
	LocalLexicon bool                       `json:"local_lexicon"`
	State        string                     `json:"state"`
	Categories   []compliance.CategoryStats `json:"categories"`
	Hint         string                     `json:"hint"`
}

// OriginalityStatus is always disabled.
type OriginalityStatus struct {
	Enabled bool   `json:"enabled"`
	Hint    string `json:"hint"`
}

// ConfigStatus is the body of the config status endpoint.
type ConfigStatus struct {
	Sensitive   SensitiveStatus   `json:"sensitive"`
	Originality OriginalityStatus `json:"originality"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": ServiceName})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConfigStatus(w http.ResponseWriter, _ *http.Request) {
	ready := s.checker.Warm() == compliance.StateReady
	stats := s.checker.Stats()

	hint := hintDisabled
	if ready {
		hint = hintEnabled
	}
	writeJSON(w, http.StatusOK, ConfigStatus{
		Sensitive: SensitiveStatus{
			Enabled:      ready,
			LocalLexicon: ready,
			State:        stats.StateName,
			Categories:   stats.Categories,
			Hint:         hint,
		},
		Originality: OriginalityStatus{
			Enabled: false,
			Hint:    compliance.OriginalitySkippedReason,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.checker.Stats())
}

func (s *Server) handleCheckCompliance(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "content is required")
		return
	}

	envelope := s.checker.CheckCompliance(req.Title, *req.Content)
	if !envelope.Passed {
		s.logger.Info("compliance check failed",
			"categories", envelope.Checks.Sensitive.FailedCategories,
			"matches", len(envelope.Checks.Sensitive.Matched),
		)
	}
	writeJSON(w, http.StatusOK, envelope)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error response of the form {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
