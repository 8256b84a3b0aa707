// Package web serves the kindred pages. Every browser gets a session that
// owns its page services; handlers follow post-redirect-get.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/kindred/internal/app"
	"github.com/YoshitsuguKoike/kindred/internal/application/service"
)

// RequestTimeout bounds a single request, auth calls included
const RequestTimeout = 30 * time.Second

// Options configures a Server
type Options struct {
	Sessions *SessionStore
	Logger   *zap.Logger // Request log; nil disables it
	DevMode  bool        // Show error details on the error page
}

// Server routes requests to the page handlers
type Server struct {
	sessions *SessionStore
	renderer *Renderer
	log      *zap.Logger
	devMode  bool
}

// NewServer parses the templates and builds a server
func NewServer(opts Options) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		sessions: opts.Sessions,
		renderer: renderer,
		log:      log,
		devMode:  opts.DevMode,
	}, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(noStore)
		r.Use(s.sessions.Middleware)

		r.Get("/", s.handleLanding)
		r.Get("/about", s.handleAbout)

		r.Get("/login", s.handleLogin)
		r.Post("/login", s.handleLoginSubmit)
		r.Post("/login/reset", s.handleLoginReset)

		r.Get("/onboarding", s.handleOnboarding)
		r.Post("/onboarding", s.handleOnboardingSubmit)

		r.Get("/dashboard", s.handleDashboard)

		r.Get("/reflection", s.handleReflection)
		r.Post("/reflection", s.handleReflectionSubmit)

		r.Get("/tracker", s.handleTracker)
		r.Post("/tracker", s.handleTrackerSubmit)

		r.Get("/patterns", s.handlePatterns)
		r.Post("/patterns", s.handlePatternsSubmit)

		r.Get("/scripts", s.handleScripts)
		r.Post("/scripts", s.handleScriptsSubmit)

		r.Get("/settings", s.handleSettings)
		r.Post("/settings", s.handleSettingsSubmit)
		r.Get("/settings/export", s.handleSettingsExport)
		r.Post("/settings/delete", s.handleSettingsDelete)

		r.NotFound(s.handleNotFound)
	})

	return r
}

// page renders a template with the session's flashes and theme
func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	sess := SessionFrom(r.Context())
	p := Page{
		Title: title,
		Path:  r.URL.Path,
		Nav:   buildNav(r.URL.Path),
		Data:  data,
	}
	if sess != nil {
		p.Flashes = sess.PopFlashes()
		p.DarkMode = sess.Workspace.Settings.DarkMode()
	}
	if err := s.renderer.Render(w, status, name, p); err != nil {
		app.GetLogger().Error("render %s failed: %v", name, err)
		if errors.Is(err, ErrResponseWrite) {
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail logs an infrastructure error and renders the error page
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	app.GetLogger().Error("%s %s: %v", r.Method, r.URL.Path, err)
	detail := ""
	if s.devMode {
		detail = err.Error()
	}
	s.page(w, r, http.StatusInternalServerError, "error", "Something went wrong", detail)
}

// isBusy reports a duplicate submission, answered with status 409
func isBusy(err error) bool {
	return errors.Is(err, service.ErrBusy)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusNotFound, "notfound", "Page not found", nil)
}
