package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/chainviz"
	"github.com/aretw0/chainviz/pkg/adapters/memory"
	"github.com/aretw0/chainviz/pkg/definition"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/aretw0/chainviz/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// MaxSteps bounds a single simulation request.
const MaxSteps = 100_000

// maxBodySize bounds request bodies (1 MiB).
const maxBodySize = 1 << 20

// SimulateRequest is the body of POST /simulate.
type SimulateRequest struct {
	Document *definition.Document `json:"document"`
	Steps    int                  `json:"steps"`
	Seed     *uint64              `json:"seed,omitempty"`
}

// SimulateResponse is returned by POST /simulate.
type SimulateResponse struct {
	RunID     string   `json:"run_id"`
	History   []string `json:"history"`
	Final     string   `json:"final"`
	StepCount int      `json:"step_count"`
}

// Server serves simulations of posted models.
type Server struct {
	Store   ports.RunStore
	Metrics *metrics.Recorder
	Logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStore sets the run store. Defaults to an in-memory store.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithMetrics sets the recorder exposed on /metrics.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Server) {
		s.Metrics = rec
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewServer creates a Server with defaults for unset dependencies.
func NewServer(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.Store == nil {
		s.Store = memory.NewStore()
	}
	if s.Metrics == nil {
		s.Metrics = metrics.NewRecorder()
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// NewHandler creates the HTTP handler.
func NewHandler(opts ...Option) http.Handler {
	return NewServer(opts...).Routes()
}

// Routes mounts the API on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/simulate", s.Simulate)
	r.Post("/dot", s.Dot)
	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{id}", s.GetRun)
	r.Delete("/runs/{id}", s.DeleteRun)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Simulate handles POST /simulate.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Simulate: invalid request body", "err", err)
		return
	}
	if body.Document == nil || body.Document.Model.Markov == nil {
		http.Error(w, "Missing document", http.StatusBadRequest)
		return
	}
	if body.Steps < 0 || body.Steps > MaxSteps {
		http.Error(w, fmt.Sprintf("steps must be between 0 and %d", MaxSteps), http.StatusBadRequest)
		return
	}

	opts := []markov.Option{markov.WithHooks(s.Metrics.Hooks())}
	if body.Seed != nil {
		opts = append(opts, markov.WithRandom(markov.NewSeeded(*body.Seed)))
	}
	model, err := body.Document.Build(opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		s.Logger.Warn("Simulate: invalid model", "err", err)
		return
	}

	model.StepN(body.Steps)
	run := model.Record(uuid.NewString())
	if err := s.Store.Save(r.Context(), run); err != nil {
		http.Error(w, "Failed to store run", http.StatusInternalServerError)
		s.Logger.Error("Simulate: save failed", "run_id", run.ID, "err", err)
		return
	}
	s.Logger.Info("Simulate", "run_id", run.ID, "steps", body.Steps, "final", run.Final)

	writeJSON(w, s.Logger, http.StatusOK, SimulateResponse{
		RunID:     run.ID,
		History:   run.History,
		Final:     run.Final,
		StepCount: run.StepCount,
	})
}

// Dot handles POST /dot. The body is a model document in JSON, or YAML when
// the content type says so.
func (s *Server) Dot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	doc, err := definition.Parse(data, formatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	model, err := doc.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	if _, err := w.Write(model.Encode()); err != nil {
		s.Logger.Error("Dot: write failed", "err", err)
	}
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, markov.ErrRunNotFound) {
			http.Error(w, fmt.Sprintf("run %s not found", id), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		s.Logger.Error("GetRun failed", "run_id", id, "err", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, run)
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Store.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete run", http.StatusInternalServerError)
		s.Logger.Error("DeleteRun failed", "run_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		s.Logger.Error("ListRuns failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.Logger, http.StatusOK, map[string][]string{"runs": ids})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":     "chainviz-http",
		"version": strings.TrimSpace(chainviz.Version),
	})
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

func formatFromContentType(ct string) definition.Format {
	if strings.Contains(ct, "yaml") {
		return definition.FormatYAML
	}
	return definition.FormatJSON
}
