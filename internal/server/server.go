package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/config"
	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/engine"
	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	"github.com/alexisbeaulieu97/hivelab/internal/metrics"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

// Engine is the composition core the server drives.
type Engine interface {
	Execute(comp *composition.Composition, snap *state.Snapshot, local state.LocalState) (*engine.Result, error)
	Check(comp *composition.Composition) engine.Report
}

// Options wires the handler's collaborators. Metrics and Logger are optional.
type Options struct {
	Engine       Engine
	Registry     *element.Registry
	Store        state.Store
	Metrics      *metrics.Recorder
	Logger       *logger.Logger
	MaxBodyBytes int64
}

// Server serves the HTTP API.
type Server struct {
	engine   Engine
	registry *element.Registry
	store    state.Store
	metrics  *metrics.Recorder
	log      *logger.Logger
	maxBody  int64
}

// NewHandler creates the HTTP handler for the API.
func NewHandler(opts Options) http.Handler {
	s := &Server{
		engine:   opts.Engine,
		registry: opts.Registry,
		store:    opts.Store,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		maxBody:  opts.MaxBodyBytes,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.store == nil {
		s.store = state.NewMemoryStore()
	}
	if s.maxBody <= 0 {
		s.maxBody = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.Health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/elements", s.ListElements)
		r.Post("/resolve", s.Resolve)
		r.Post("/validate", s.Validate)

		r.Get("/tools", s.ListTools)
		r.Route("/tools/{toolID}", func(r chi.Router) {
			r.Get("/state", s.GetState)
			r.Put("/state", s.PutState)
			r.Delete("/state", s.DeleteState)
			r.Post("/resolve", s.ResolveTool)
		})
	})

	return r
}

// New builds an http.Server for handler using cfg's timeouts.
func New(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.With("addr", srv.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(r.Method, route, ww.Status(), elapsed)
		}
		s.log.WithFields(map[string]any{
			"request_id": RequestIDFrom(r.Context()),
			"method":     r.Method,
			"route":      route,
			"status":     ww.Status(),
			"elapsed":    elapsed.String(),
		}).Debug("http request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
