// Package server exposes the analysis engine over HTTP, for tooling that
// wants lineage JSON without shelling out to the CLI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sqlweave-labs/sqlweave/internal/config"
	"github.com/sqlweave-labs/sqlweave/internal/dag"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
)

// Config holds configuration for the API server.
type Config struct {
	Host string
	Port int
	// Project supplies the default dialect and schema setup for requests
	// that do not override them.
	Project *config.ProjectConfig
	Logger  *slog.Logger
	Version string
}

// Server is the HTTP lineage API. Each analyze request runs on a fresh
// engine, so requests never see each other's implied schema.
type Server struct {
	host    string
	port    int
	project *config.ProjectConfig
	logger  *slog.Logger
	version string
}

// NewServer creates an API server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	project := cfg.Project
	if project == nil {
		project = config.DefaultProject()
	}

	return &Server{
		host:    cfg.Host,
		port:    cfg.Port,
		project: project,
		logger:  logger,
		version: cfg.Version,
	}
}

// Handler builds the chi router. Exposed separately from Serve so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestLogger(s.logger),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/lineage", s.handleLineage)
		r.Get("/health", s.handleHealth)
	})

	return r
}

// Serve starts the server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	s.logger.Info("starting API server", "addr", addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// analyzeRequest is the POST /api/v1/analyze body.
type analyzeRequest struct {
	SQL string `json:"sql"`
	// Dialect overrides the server's configured dialect for this request.
	Dialect string `json:"dialect,omitempty"`
	// Tables adds imported schema for this request, on top of whatever
	// the server's schema files provide.
	Tables []core.SchemaTable `json:"tables,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("sql is required"))
		return
	}

	eng, err := s.engineFor(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrUnknownDialect) || errors.Is(err, dialect.ErrDialectRequired) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}

	res, err := eng.AnalyzeScript(r.Context(), req.SQL, "api")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

// lineageRequest is the POST /api/v1/lineage body. The analyze fields are
// embedded, so sql/dialect/tables work the same way on both endpoints.
type lineageRequest struct {
	analyzeRequest
	// Relation names the table or view to traverse from.
	Relation string `json:"relation"`
	// Direction is up, down, or both. Empty means both.
	Direction string `json:"direction,omitempty"`
	// Depth limits the traversal. Zero means unlimited.
	Depth int `json:"depth,omitempty"`
}

// lineageResponse is the POST /api/v1/lineage reply.
type lineageResponse struct {
	Root       string        `json:"root"`
	Direction  string        `json:"direction"`
	Depth      int           `json:"depth"`
	Nodes      []lineageNode `json:"nodes"`
	Edges      []lineageEdge `json:"edges"`
	Upstream   []string      `json:"upstream"`
	Downstream []string      `json:"downstream"`
	Issues     []core.Issue  `json:"issues"`
}

type lineageNode struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type lineageEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleLineage(w http.ResponseWriter, r *http.Request) {
	var req lineageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("sql is required"))
		return
	}
	if strings.TrimSpace(req.Relation) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("relation is required"))
		return
	}
	direction := req.Direction
	if direction == "" {
		direction = "both"
	}
	if direction != "up" && direction != "down" && direction != "both" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid direction %q (want up, down, or both)", req.Direction))
		return
	}

	eng, err := s.engineFor(req.analyzeRequest)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrUnknownDialect) || errors.Is(err, dialect.ErrDialectRequired) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}

	res, err := eng.AnalyzeScript(r.Context(), req.SQL, "api")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	graph := dag.FromGlobal(res.Global)
	name := lineage.NormalizeQualified(req.Relation, eng.Dialect(), eng.Metadata().CaseOverride)
	matches := graph.Resolve(name)
	switch {
	case len(matches) == 0:
		s.writeError(w, http.StatusNotFound, fmt.Errorf("relation %q not found in the analyzed statements", req.Relation))
		return
	case len(matches) > 1:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("relation %q is ambiguous: %s", req.Relation, strings.Join(matches, ", ")))
		return
	}
	root := matches[0]

	var upstream, downstream []string
	if direction != "down" {
		upstream = graph.Upstream(root, req.Depth)
	}
	if direction != "up" {
		downstream = graph.Downstream(root, req.Depth)
	}

	resp := lineageResponse{
		Root:       root,
		Direction:  direction,
		Depth:      req.Depth,
		Upstream:   upstream,
		Downstream: downstream,
		Issues:     res.Issues,
		Edges:      []lineageEdge{},
	}
	names := make([]string, 0, 1+len(upstream)+len(downstream))
	names = append(names, root)
	names = append(names, upstream...)
	names = append(names, downstream...)

	inSet := make(map[string]bool, len(names))
	for _, n := range names {
		if inSet[n] {
			continue
		}
		inSet[n] = true
		kind := ""
		if node, ok := graph.Node(n); ok {
			kind = string(node.Kind)
		}
		resp.Nodes = append(resp.Nodes, lineageNode{Name: n, Kind: kind})
	}
	for _, node := range resp.Nodes {
		for _, child := range graph.Children(node.Name) {
			if inSet[child] {
				resp.Edges = append(resp.Edges, lineageEdge{From: node.Name, To: child})
			}
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
		"dialect": s.project.Dialect,
	})
}

// engineFor builds the engine for one request: the server's project
// config with any per-request dialect and table overrides applied.
func (s *Server) engineFor(req analyzeRequest) (*engine.Engine, error) {
	p := *s.project
	if req.Dialect != "" {
		p.Dialect = req.Dialect
	}

	cfg := p.EngineConfig(s.logger)
	if len(req.Tables) > 0 {
		cfg.Metadata.Tables = append(cfg.Metadata.Tables, req.Tables...)
	}
	return engine.New(cfg)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestLogger logs one line per request with status and timing, in
// place of chi's stock Logger middleware.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start).Round(time.Microsecond))
		})
	}
}
