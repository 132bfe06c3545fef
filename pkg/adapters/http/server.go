package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/internal/dto"
	"github.com/aretw0/vantage/internal/logging"
	"github.com/aretw0/vantage/internal/presentation/graph"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Resolver defines what the server needs from the resolution core.
type Resolver interface {
	Resolve(ctx context.Context, reference domain.EntityPath, query domain.LatestAtQuery) (*vantage.TransformCache, error)
	Tree() ports.EntityTree
	KindAt(path domain.EntityPath, query domain.LatestAtQuery) (domain.TransformKind, bool)
}

// TimelineFunc resolves a timeline name from a request. An empty name selects the default.
type TimelineFunc func(name string) (domain.Timeline, error)

// Server serves transform caches over HTTP.
type Server struct {
	Resolver  Resolver
	Timelines TimelineFunc
	logger    *slog.Logger
	metrics   http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h (usually promhttp.Handler) at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the resolver.
func NewHandler(resolver Resolver, timelines TimelineFunc, opts ...Option) http.Handler {
	server := &Server{
		Resolver:  resolver,
		Timelines: timelines,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.Health)
	r.Get("/transforms", server.Transforms)
	r.Get("/graph", server.Graph)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": vantage.Version})
}

// Transforms handles GET /transforms?reference=&timeline=&at=.
func (s *Server) Transforms(w http.ResponseWriter, r *http.Request) {
	reference, query, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cache, err := s.Resolver.Resolve(r.Context(), reference, query)
	if err != nil {
		http.Error(w, fmt.Sprintf("Resolve error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Resolve failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCacheReport(cache, query))
}

// Graph handles GET /graph?reference=&timeline=&at= and returns a Mermaid flowchart.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	reference, query, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	root, ok := s.Resolver.Tree().Subtree(domain.RootPath)
	if !ok {
		http.Error(w, "entity tree has no root", http.StatusInternalServerError)
		return
	}
	cache, err := s.Resolver.Resolve(r.Context(), reference, query)
	if err != nil {
		http.Error(w, fmt.Sprintf("Resolve error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Resolve failed", "error", err)
		return
	}

	kinds := func(p domain.EntityPath) (domain.TransformKind, bool) {
		return s.Resolver.KindAt(p, query)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graph.GenerateMermaid(root, kinds, graph.OverlayFromCache(cache))))
}

func (s *Server) parseRequest(r *http.Request) (domain.EntityPath, domain.LatestAtQuery, error) {
	q := r.URL.Query()

	reference, err := domain.ParseEntityPath(q.Get("reference"))
	if err != nil {
		return "", domain.LatestAtQuery{}, err
	}

	timeline, err := s.Timelines(q.Get("timeline"))
	if err != nil {
		return "", domain.LatestAtQuery{}, err
	}

	at := q.Get("at")
	if at == "" {
		return reference, domain.LatestAtEnd(timeline), nil
	}
	value, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return "", domain.LatestAtQuery{}, errors.New("at must be an integer")
	}
	return reference, domain.NewLatestAtQuery(timeline, domain.TimeInt(value)), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
