package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"go.uber.org/zap"
)

//go:embed templates/*.html templates/*.css
var templates embed.FS

type layoutData struct {
	Title   string
	CSS     template.CSS
	Content template.HTML
}

type adminData struct {
	UserID      string
	AdminMode   bool
	Domain      string
	Audience    string
	Experiments []adminExperiment
}

type adminExperiment struct {
	ID       string
	Name     string
	Variants []string
	Assigned string
	Override string
}

// handleAdmin renders the visitor's debug view: identity, domain and the
// assignment for every active experiment. It does not emit view events.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	client := visitorFrom(r.Context())
	engine := client.Engine()
	userID := client.UserID()
	cfg := s.core.Resolver.Resolve(pageHostname(r))

	data := adminData{
		UserID:    userID,
		AdminMode: engine.AdminMode(),
		Domain:    cfg.Domain,
		Audience:  string(cfg.Audience),
	}
	for _, exp := range s.core.Registry.ListActive() {
		item := adminExperiment{
			ID:       exp.ID,
			Name:     exp.Name,
			Assigned: engine.Assign(exp.ID, userID),
		}
		for _, v := range exp.Variants {
			item.Variants = append(item.Variants, fmt.Sprintf("%s (%d%%)", v.ID, v.Weight))
		}
		item.Override, _ = engine.Override(exp.ID)
		data.Experiments = append(data.Experiments, item)
	}

	s.renderAdmin(w, "Experiments", "admin.html", data)
}

// OverrideRequest forces a variant for the calling browser.
type OverrideRequest struct {
	TestID    string `json:"test_id"`
	VariantID string `json:"variant_id"`
}

type OverridesResponse struct {
	UserID    string            `json:"user_id"`
	AdminMode bool              `json:"admin_mode"`
	Overrides map[string]string `json:"overrides"`
}

// handleOverrides lists (GET), sets (POST) or clears (DELETE ?test=) the
// calling browser's overrides.
func (s *Server) handleOverrides(w http.ResponseWriter, r *http.Request) {
	client := visitorFrom(r.Context())
	engine := client.Engine()

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req OverrideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		exp, ok := s.core.Registry.Get(req.TestID)
		if !ok || !exp.Active {
			http.Error(w, "Unknown or inactive test", http.StatusBadRequest)
			return
		}
		if req.VariantID == "" {
			http.Error(w, "Missing variant", http.StatusBadRequest)
			return
		}
		if err := engine.SetOverride(req.TestID, req.VariantID); err != nil {
			http.Error(w, "Failed to set override", http.StatusInternalServerError)
			return
		}
	case http.MethodDelete:
		testID := r.URL.Query().Get("test")
		if testID == "" {
			http.Error(w, "test parameter required", http.StatusBadRequest)
			return
		}
		if err := engine.ClearOverride(testID); err != nil {
			http.Error(w, "Failed to clear override", http.StatusInternalServerError)
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, OverridesResponse{
		UserID:    client.UserID(),
		AdminMode: engine.AdminMode(),
		Overrides: engine.Overrides(),
	})
}

func (s *Server) handleAdminMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	engine := visitorFrom(r.Context()).Engine()
	if err := engine.SetAdminMode(req.Enabled); err != nil {
		http.Error(w, "Failed to set admin mode", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"admin_mode": engine.AdminMode()})
}

// IdentityResetResponse reports which overrides were cleared. Reset is false
// when any override could not be removed.
type IdentityResetResponse struct {
	Reset            bool     `json:"reset"`
	OverridesCleared []string `json:"overrides_cleared"`
	OverridesFailed  []string `json:"overrides_failed"`
}

// handleIdentityReset clears the browser's identity and overrides. The page
// should reload afterwards to pick up fresh assignments.
func (s *Server) handleIdentityReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	client := visitorFrom(r.Context())
	engine := client.Engine()
	overrides := engine.Overrides()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cleared := make([]string, 0, len(keys))
	failed := make([]string, 0)
	for _, k := range keys {
		if err := engine.ClearOverride(k); err != nil {
			s.logger.Warn("failed to clear override", zap.String("experiment", k), zap.Error(err))
			failed = append(failed, k)
			continue
		}
		cleared = append(cleared, k)
	}

	if err := client.ResetIdentity(); err != nil {
		s.logger.Warn("failed to reset identity", zap.Error(err))
		http.Error(w, "Failed to reset identity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, IdentityResetResponse{
		Reset:            len(failed) == 0,
		OverridesCleared: cleared,
		OverridesFailed:  failed,
	})
}

func (s *Server) renderAdmin(w http.ResponseWriter, title, contentTemplate string, data interface{}) {
	// Load CSS
	cssBytes, err := templates.ReadFile("templates/style.css")
	if err != nil {
		http.Error(w, "Failed to load styles", http.StatusInternalServerError)
		return
	}

	contentTmpl, err := template.ParseFS(templates, "templates/"+contentTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template", http.StatusInternalServerError)
		return
	}

	var contentBuf bytes.Buffer
	if err := contentTmpl.Execute(&contentBuf, data); err != nil {
		http.Error(w, fmt.Sprintf("Failed to render template: %v", err), http.StatusInternalServerError)
		return
	}

	layoutTmpl, err := template.ParseFS(templates, "templates/layout.html")
	if err != nil {
		http.Error(w, "Failed to parse layout", http.StatusInternalServerError)
		return
	}

	layoutData := layoutData{
		Title:   title,
		CSS:     template.CSS(cssBytes),
		Content: template.HTML(contentBuf.String()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layoutTmpl.Execute(w, layoutData); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}
