// Package server exposes uploaded documents over HTTP.
//
// Routes:
//
//	POST   /documents                      upload an envelope (?sections=&strict=)
//	GET    /documents                      list uploaded documents
//	GET    /documents/{id}                 document summary
//	DELETE /documents/{id}                 forget a document
//	GET    /documents/{id}/lines           render (?mode=&docs=&skip_diff=&expand=&format=)
//	GET    /documents/{id}/sections/{sid}  expanded body of a section (?mode=&docs=&skip_diff=)
//	GET    /documents/{id}/tree            section forest (?format=dot|svg&all=)
//	GET    /healthz                        liveness
//	GET    /metrics                        Prometheus metrics
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/apiview/internal/config"
	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/render"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	store   *Store
	metrics *Metrics
	cfg     config.ServerConfig
	table   *render.Table
	keyer   cache.Keyer
	log     *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithTable sets the classification table for uploaded documents.
func WithTable(t *render.Table) Option {
	return func(s *Server) {
		if t != nil {
			s.table = t
		}
	}
}

// WithKeyer sets the render slot keyer for uploaded documents.
func WithKeyer(k cache.Keyer) Option {
	return func(s *Server) {
		if k != nil {
			s.keyer = k
		}
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates and configures the server.
func New(cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		store:   NewStore(cfg.MaxDocuments),
		metrics: NewMetrics(),
		cfg:     cfg,
		table:   render.DefaultTable(),
		keyer:   cache.NewDefaultKeyer(),
		log:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/lines", s.handleLines)
			r.Get("/sections/{section}", s.handleSection)
			r.Get("/tree", s.handleTree)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe installs the metrics hooks and serves until ctx is
// cancelled, then shuts down within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.metrics.Install()

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
