package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fliptech/ftab/internal/domain"
)

type HealthResponse struct {
	Status            string `json:"status"`
	ExperimentsActive int    `json:"experiments_active"`
	Domains           int    `json:"domains"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:            "ok",
		ExperimentsActive: len(s.core.Registry.ListActive()),
		Domains:           len(s.core.Resolver.Domains()),
		UptimeSeconds:     int64(time.Since(s.startTime).Seconds()),
	})
}

type AssignmentResponse struct {
	TestID    string `json:"test_id"`
	VariantID string `json:"variant_id"`
	UserID    string `json:"user_id"`
}

type AssignmentsResponse struct {
	UserID      string            `json:"user_id"`
	Assignments map[string]string `json:"assignments"`
}

// handleAssign returns one assignment (?test=<id>) or the assignments for
// the experiments a page renders (?tests=a,b). Each returned assignment
// emits a view event.
func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	client := visitorFrom(r.Context())
	w.Header().Set("Cache-Control", "no-store")
	query := r.URL.Query()

	if testID := query.Get("test"); testID != "" {
		variant := client.Variant(testID)
		writeJSON(w, http.StatusOK, AssignmentResponse{
			TestID:    testID,
			VariantID: variant,
			UserID:    client.UserID(),
		})
		return
	}

	ids := splitList(query.Get("tests"))
	if len(ids) == 0 {
		http.Error(w, "Missing test or tests parameter", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, AssignmentsResponse{
		UserID:      client.UserID(),
		Assignments: client.Assignments(ids...),
	})
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// handleDomain returns the domain config for the request hostname.
func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := visitorFrom(r.Context()).LoadPage()
	writeJSON(w, http.StatusOK, page.Config())
}

type ContentResponse struct {
	Domain  string                `json:"domain"`
	Section domain.Section        `json:"section"`
	Content domain.SectionContent `json:"content"`
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	section, ok := domain.ParseSection(r.URL.Query().Get("section"))
	if !ok {
		http.Error(w, "Unknown section", http.StatusBadRequest)
		return
	}

	page := visitorFrom(r.Context()).LoadPage()
	writeJSON(w, http.StatusOK, ContentResponse{
		Domain:  page.Config().Domain,
		Section: section,
		Content: page.Content(section),
	})
}

// ConvertRequest reports a conversion for a variant the page was shown.
type ConvertRequest struct {
	TestID         string `json:"test_id"`
	VariantID      string `json:"variant_id"`
	ConversionType string `json:"conversion_type"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.TestID == "" || req.VariantID == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	visitorFrom(r.Context()).Convert(req.TestID, req.VariantID, req.ConversionType)
	w.WriteHeader(http.StatusNoContent)
}

// TrackRequest reports a UI engagement event.
type TrackRequest struct {
	Event     string `json:"event"`
	TestID    string `json:"test_id"`
	VariantID string `json:"variant_id"`
	Label     string `json:"label"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !visitorFrom(r.Context()).Track(req.Event, req.TestID, req.VariantID, req.Label) {
		http.Error(w, "Invalid event type", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
