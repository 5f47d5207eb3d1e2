package server

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// requestLogger logs each request with its duration
func (s *Server) requestLogger(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	}
}

// authRequired redirects unauthenticated visitors to the login page. It is
// a no-op when no dashboard password is configured, matching the original
// public status page.
func (s *Server) authRequired(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.AuthEnabled() {
			next(w, r)
			return
		}

		session, err := s.sessionStore.Get(r, sessionName)
		if err == nil {
			if authed, ok := session.Values["authenticated"].(bool); ok && authed {
				next(w, r)
				return
			}
		}

		// API clients get a status code, browsers get the login page
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

// withTheme loads the visitor's theme preference from the session into the
// request context
func (s *Server) withTheme(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme := defaultTheme
		if session, err := s.sessionStore.Get(r, sessionName); err == nil {
			if t, ok := session.Values["theme"].(string); ok && t != "" {
				theme = t
			}
		}
		next(w, r.WithContext(setThemeContext(r.Context(), theme)))
	}
}
