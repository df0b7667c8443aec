// Package server serves HTML previews of form definitions.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formrender/internal/logging"
	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

// maxDefinitionBytes bounds POST /forms bodies.
const maxDefinitionBytes = 1 << 20

// Config holds server configuration.
type Config struct {
	Addr string
	// DefinitionsDir is loaded at startup. Empty serves posted previews only.
	DefinitionsDir string
	// Watch reloads DefinitionsDir when files change.
	Watch    bool
	Registry *render.Registry
	// Renderer is used when a request names none.
	Renderer   string
	Locale     string
	Translator form.Translator
	Logger     *logging.Logger
	// CSRFField names the token input added to every rendered form, with the
	// same token set in the formrender_csrf cookie. Empty disables it.
	CSRFField string
	// MaxPreviews caps posted documents; zero uses DefaultMaxPreviews.
	MaxPreviews int
}

// Server wires the store, the renderer registry, and the routes.
type Server struct {
	cfg     Config
	store   *Store
	router  chi.Router
	logger  *logging.Logger
	watcher *Watcher
}

// New loads the definitions and builds the router. It does not listen.
func New(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("server: renderer registry is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger()
	}

	var store *Store
	var err error
	if cfg.DefinitionsDir != "" {
		store, err = NewStore(os.DirFS(cfg.DefinitionsDir), ".", WithMaxPreviews(cfg.MaxPreviews))
	} else {
		store, err = NewStore(nil, "", WithMaxPreviews(cfg.MaxPreviews))
	}
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: cfg.Logger.With("component", "server"),
	}
	s.router = s.routes()
	return s, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the definition store.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Post("/", s.handleCreatePreview)
		r.Get("/{name}", s.handleRenderForm)
	})
	r.Get("/previews/{id}", s.handleRenderPreview)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Run listens on cfg.Addr until ctx is cancelled. With Watch set, the
// definitions directory is reloaded on change.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Watch && s.cfg.DefinitionsDir != "" {
		watcher, err := NewWatcher(s.cfg.DefinitionsDir, s.store, s.cfg.Logger)
		if err != nil {
			return err
		}
		s.watcher = watcher
		watcher.Start()
		defer func() {
			_ = watcher.Stop()
		}()
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("preview server listening",
		"addr", s.cfg.Addr,
		"forms", len(s.store.Definitions().Forms),
		"watch", s.watcher != nil,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
