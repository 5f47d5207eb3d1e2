package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/tiarrablandin/grimoire-status/internal/checker"
	"github.com/tiarrablandin/grimoire-status/internal/config"
	"github.com/tiarrablandin/grimoire-status/internal/embeds"
	"github.com/tiarrablandin/grimoire-status/internal/status"
	"github.com/tiarrablandin/grimoire-status/internal/version"
	"github.com/tiarrablandin/grimoire-status/internal/vitals"
)

const sessionName = "grimoire-session"

// Server represents the HTTP server
type Server struct {
	config       *config.Config
	templates    map[string]*template.Template
	sessionStore *sessions.CookieStore
	checker      *checker.Checker
	tracker      *status.Tracker
	extraTargets []checker.Target
	sse          *SSEManager
	versionInfo  version.Info
	startTime    time.Time
	httpSrv      *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, versionInfo version.Info, chk *checker.Checker, tracker *status.Tracker, extraTargets []checker.Target) (*Server, error) {
	sessionKey := []byte(cfg.SessionKey)
	if len(sessionKey) == 0 {
		// Random key: sessions won't survive a restart, which only costs
		// visitors their theme choice / login.
		sessionKey = make([]byte, 32)
		if _, err := rand.Read(sessionKey); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		log.Printf("No session_key configured, using a random one")
	}

	s := &Server{
		config:       cfg,
		templates:    make(map[string]*template.Template),
		sessionStore: sessions.NewCookieStore(sessionKey),
		checker:      chk,
		tracker:      tracker,
		extraTargets: extraTargets,
		sse:          NewSSEManager(),
		versionInfo:  versionInfo,
		startTime:    time.Now(),
	}

	s.sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return s, nil
}

// loadTemplates parses all HTML templates from the embedded filesystem
func (s *Server) loadTemplates() error {
	pages := []string{"home", "login"}

	for _, page := range pages {
		tmpl, err := embeds.ParseTemplate("templates/base.html", "templates/"+page+".html")
		if err != nil {
			return fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		s.templates[page] = tmpl
	}

	return nil
}

// primaryTarget returns the backend target the status card displays
func (s *Server) primaryTarget() checker.Target {
	return checker.Target{Name: "backend", URL: s.config.HealthURL()}
}

// routes builds the request mux
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Static file serving from the embedded filesystem
	staticFS, err := embeds.StaticFS()
	if err == nil {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// Public routes (no auth required)
	mux.HandleFunc("/healthz", s.requestLogger(s.handleHealthz))
	mux.HandleFunc("/login", s.requestLogger(s.handleLogin))
	mux.HandleFunc("/logout", s.requestLogger(s.handleLogout))

	// Dashboard routes
	mux.HandleFunc("/", s.requestLogger(s.authRequired(s.withTheme(s.handleHome))))
	mux.HandleFunc("/theme", s.requestLogger(s.authRequired(s.handleTheme)))

	// API routes
	mux.HandleFunc("/api/check", s.requestLogger(s.authRequired(s.handleCheck)))
	mux.HandleFunc("/api/status", s.requestLogger(s.authRequired(s.handleStatus)))
	mux.HandleFunc("/api/status/history", s.requestLogger(s.authRequired(s.handleHistory)))
	mux.HandleFunc("/api/targets", s.requestLogger(s.authRequired(s.handleTargets)))
	mux.HandleFunc("/api/vitals", s.requestLogger(s.authRequired(s.handleVitals)))
	mux.HandleFunc("/api/events", s.authRequired(s.handleEvents))

	return mux
}

// Start starts the HTTP server and blocks until it exits
func (s *Server) Start() error {
	addr := s.config.ListenAddr
	if addr == "" {
		addr = ":8084"
	}

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting server on %s (backend %s)", addr, s.config.APIBaseURL)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() {
	s.sse.CloseAll()

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down HTTP server: %v", err)
		}
	}
}

// BroadcastResult pushes an applied check result to connected SSE clients.
// Wired as the scheduler's onApplied callback.
func (s *Server) BroadcastResult(res checker.Result) {
	s.sse.Broadcast("check", res)
}

// BroadcastVitals pushes a vitals sample to connected SSE clients.
func (s *Server) BroadcastVitals(sample vitals.Sample) {
	s.sse.Broadcast("vitals", sample)
}
