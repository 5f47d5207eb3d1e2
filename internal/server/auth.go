package server

import (
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// checkPassword checks if password matches the configured bcrypt hash
func checkPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// handleLogin renders the login form and processes submissions. The route
// only exists meaningfully when a dashboard password is configured.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.config.AuthEnabled() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderLogin(w, "")

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		password := r.FormValue("password")
		if err := checkPassword(password, s.config.DashboardPasswordHash); err != nil {
			s.renderLogin(w, "Invalid password")
			return
		}

		session, _ := s.sessionStore.Get(r, sessionName)
		session.Values["authenticated"] = true
		if err := session.Save(r, w); err != nil {
			log.Printf("Failed to save session: %v", err)
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusFound)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleLogout clears the authenticated flag
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, sessionName)
	delete(session.Values, "authenticated")
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) renderLogin(w http.ResponseWriter, errorMessage string) {
	tmpl, ok := s.templates["login"]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Title": "Sign in",
		"Theme": defaultTheme,
		"Error": errorMessage,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("Error rendering login template: %v", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
	}
}
