// Package http exposes the routing engine over a JSON HTTP API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Engine defines the interface for the espalier routing core.
type Engine interface {
	Route(ctx context.Context, order *domain.Order) (domain.Decision, error)
	Inspect() domain.NodeInfo
}

// Dumper is implemented by engines that can render the diagnostic tree view.
type Dumper interface {
	WriteDump(w io.Writer)
}

// JournalReader serves the decision history endpoints when a journal is
// configured.
type JournalReader interface {
	Recent(ctx context.Context, n int64) ([]domain.Decision, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

// Server wires the engine into HTTP handlers.
type Server struct {
	engine  Engine
	dump    func(io.Writer)
	journal JournalReader
	logger  *slog.Logger
}

// HandlerOption configures the HTTP surface.
type HandlerOption func(*Server, *chi.Mux)

// WithJournal mounts /decisions and /decisions/counts backed by the journal.
func WithJournal(journal JournalReader) HandlerOption {
	return func(s *Server, r *chi.Mux) {
		s.journal = journal
		r.Get("/decisions", s.getDecisions)
		r.Get("/decisions/counts", s.getDecisionCounts)
	}
}

// WithMetricsHandler mounts a metrics endpoint, typically promhttp.
func WithMetricsHandler(h http.Handler) HandlerOption {
	return func(s *Server, r *chi.Mux) {
		r.Method(http.MethodGet, "/metrics", h)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server, r *chi.Mux) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...HandlerOption) http.Handler {
	s := &Server{
		engine: engine,
		logger: slog.Default(),
	}
	if d, ok := engine.(Dumper); ok {
		s.dump = d.WriteDump
	}

	r := chi.NewRouter()
	r.Post("/route", s.postRoute)
	r.Get("/graph", s.getGraph)
	r.Get("/tree", s.getTree)
	r.Get("/health", s.getHealth)

	for _, opt := range opts {
		opt(s, r)
	}
	return r
}

func (s *Server) postRoute(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("route: invalid request body", "error", err)
		return
	}
	if order.ID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	decision, err := s.engine.Route(r.Context(), &order)
	if err != nil {
		http.Error(w, fmt.Sprintf("Routing error: %v", err), http.StatusInternalServerError)
		s.logger.Error("route failed", "order_id", order.ID, "error", err)
		return
	}

	writeJSON(w, s.logger, decision)
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, s.engine.Inspect())
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	if s.dump == nil {
		http.Error(w, "Tree dump not supported", http.StatusNotImplemented)
		return
	}
	var buf bytes.Buffer
	s.dump(&buf)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func (s *Server) getDecisions(w http.ResponseWriter, r *http.Request) {
	n := int64(50)
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid n parameter", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	decisions, err := s.journal.Recent(r.Context(), n)
	if err != nil {
		http.Error(w, fmt.Sprintf("Journal error: %v", err), http.StatusInternalServerError)
		s.logger.Error("journal read failed", "error", err)
		return
	}
	writeJSON(w, s.logger, decisions)
}

func (s *Server) getDecisionCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.journal.Counts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Journal error: %v", err), http.StatusInternalServerError)
		s.logger.Error("journal counts failed", "error", err)
		return
	}
	writeJSON(w, s.logger, counts)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
