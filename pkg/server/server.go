// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                      liveness and build info
//	POST /v1/layouts                   lay out a gallery, store the board
//	GET  /v1/layouts/{id}              fetch a stored board
//	GET  /v1/layouts/{id}/{format}     render a stored board
//	POST /v1/render/{format}           lay out and render in one call
//	PUT  /v1/handoffs/{client}         store a navigation handoff
//	POST /v1/handoffs/{client}/exit    compute an exit flight and store its handoff
//	GET  /v1/handoffs/{client}         take (read once) a handoff
//
// Errors are JSON objects {"error", "code", "request_id"} with a status
// derived from the error code.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/scatterbox/pkg/buildinfo"
	"github.com/matzehuels/scatterbox/pkg/handoff"
	"github.com/matzehuels/scatterbox/pkg/httputil"
	"github.com/matzehuels/scatterbox/pkg/pipeline"
)

// Config configures the HTTP server.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration // per-request deadline; 0 disables
	MaxBodyBytes    int64         // request body limit; 0 disables
	MaxRenderPixels int           // raster size limit for PNG output; 0 disables

	// GalleryDir enables local gallery paths, resolved inside this
	// directory. Empty allows only URLs and inline projects.
	GalleryDir string

	// Defaults prefill every request's pipeline options.
	Defaults pipeline.Options
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	handoffs *handoff.Store
	client   *httputil.Client
	logger   *log.Logger
	router   chi.Router
	http     *http.Server
}

// New wires routes and middleware. Boards and handoffs are kept in the
// runner's cache.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = runner.Logger
	}

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		handoffs: handoff.NewStore(runner.Cache, runner.Keyer),
		client: httputil.NewClient(30*time.Second, map[string]string{
			"User-Agent": buildinfo.UserAgent(),
		}).WithRetry(2, 250*time.Millisecond),
		logger: logger,
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	if s.cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layouts", s.handleCreateLayout)
		r.Get("/layouts/{id}", s.handleGetLayout)
		r.Get("/layouts/{id}/{format}", s.handleRenderLayout)
		r.Post("/render/{format}", s.handleRender)

		r.Put("/handoffs/{client}", s.handlePutHandoff)
		r.Post("/handoffs/{client}/exit", s.handleExitHandoff)
		r.Get("/handoffs/{client}", s.handleTakeHandoff)
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr, "version", buildinfo.Version)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
