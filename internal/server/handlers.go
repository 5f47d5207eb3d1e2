package server

import (
	"log"
	"net/http"

	"github.com/tiarrablandin/grimoire-status/internal/database"
	"github.com/tiarrablandin/grimoire-status/internal/status"
)

// handleHome renders the status page. If no check has completed yet, one is
// performed synchronously so the first page load never shows an empty card;
// this mirrors the original page issuing its check on mount.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	// Only handle exact path match
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.tracker.Latest("backend")
	if !ok {
		res := s.runCheck(r.Context(), s.primaryTarget())
		snap = status.Snapshot{
			Target:     res.Target,
			State:      res.State,
			Message:    res.Message,
			StatusCode: res.StatusCode,
			LatencyMS:  res.LatencyMS,
			CheckedAt:  res.CheckedAt,
		}
	}

	var extras []status.Snapshot
	for _, t := range s.tracker.All() {
		if t.Target != "backend" {
			extras = append(extras, t)
		}
	}

	vital, err := database.GetLatestVitalLog()
	if err != nil {
		log.Printf("Failed to load latest vitals: %v", err)
	}

	data := map[string]interface{}{
		"Title":       "Grimoire Collective",
		"Theme":       themeFromContext(r.Context()),
		"Snapshot":    snap,
		"Extras":      extras,
		"Vital":       vital,
		"BackendURL":  s.config.APIBaseURL,
		"Version":     s.versionInfo.Version,
		"AuthEnabled": s.config.AuthEnabled(),
	}

	tmpl, ok := s.templates["home"]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("Error rendering home template: %v", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return
	}
}

// handleTheme flips the session theme between dark and light
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, _ := s.sessionStore.Get(r, sessionName)

	theme := defaultTheme
	if t, ok := session.Values["theme"].(string); ok && t != "" {
		theme = t
	}
	if theme == "dark" {
		theme = "light"
	} else {
		theme = "dark"
	}

	session.Values["theme"] = theme
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to save session: %v", err)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
