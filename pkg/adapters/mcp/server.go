package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/chainviz"
	"github.com/aretw0/chainviz/pkg/analysis"
	"github.com/aretw0/chainviz/pkg/definition"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/aretw0/chainviz/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MaxSteps bounds a single simulate call.
const MaxSteps = 100_000

// RunsURI is the resource listing stored run IDs.
const RunsURI = "chainviz://runs"

// Engine defines what the MCP server needs from chainviz.
type Engine interface {
	ModelOptions() []markov.Option
	Simulate(ctx context.Context, m *markov.Model, steps int) (*markov.Run, error)
	Analyze(m *markov.Model) (*analysis.Report, error)
	Store() ports.RunStore
}

// SimulateArgs are the arguments of the simulate tool.
type SimulateArgs struct {
	Document string  `json:"document"`
	Format   string  `json:"format,omitempty"`
	Steps    int     `json:"steps"`
	Seed     *uint64 `json:"seed,omitempty"`
}

// SimulateResponse is the structured result of the simulate tool.
type SimulateResponse struct {
	RunID     string   `json:"run_id" jsonschema_description:"ID of the stored run"`
	History   []string `json:"history" jsonschema_description:"Visited state names, start first"`
	Final     string   `json:"final" jsonschema_description:"The state the chain ended in"`
	StepCount int      `json:"step_count" jsonschema_description:"Number of assignments, including the initial one"`
}

// DotArgs are the arguments of the dot tool.
type DotArgs struct {
	Document string `json:"document"`
	Format   string `json:"format,omitempty"`
	Steps    int    `json:"steps,omitempty"`
}

// DotResponse is the structured result of the dot tool.
type DotResponse struct {
	Dot string `json:"dot" jsonschema_description:"Graphviz DOT source of the current frame"`
}

// ValidateArgs are the arguments of the validate tool.
type ValidateArgs struct {
	Document string `json:"document"`
	Format   string `json:"format,omitempty"`
}

// Server exposes a chainviz Engine as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger. Stdio transports must keep it off stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("chainviz-mcp", strings.TrimSpace(chainviz.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	documentArg := mcp.WithString("document", mcp.Required(),
		mcp.Description("Model document: {\"model\": {\"start\": ..., \"markov\": {\"state_X\": {\"Y\": p}}}}"))
	formatArg := mcp.WithString("format",
		mcp.Description("Document format, json or yaml (detected when omitted)"))

	s.mcpServer.AddTool(mcp.NewTool("simulate",
		mcp.WithDescription("Advance a Markov chain by a number of steps and store the run."),
		documentArg,
		formatArg,
		mcp.WithNumber("steps", mcp.Required(), mcp.Description("Number of steps to run")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible run (optional)")),
		mcp.WithOutputSchema[SimulateResponse](),
	), mcp.NewStructuredToolHandler(s.handleSimulate))

	s.mcpServer.AddTool(mcp.NewTool("dot",
		mcp.WithDescription("Render a Markov chain as Graphviz DOT, optionally after some steps."),
		documentArg,
		formatArg,
		mcp.WithNumber("steps", mcp.Description("Steps to run before rendering (optional)")),
		mcp.WithOutputSchema[DotResponse](),
	), mcp.NewStructuredToolHandler(s.handleDot))

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Check a Markov chain and report reachable, absorbing and unreachable states."),
		documentArg,
		formatArg,
		mcp.WithOutputSchema[analysis.Report](),
	), mcp.NewStructuredToolHandler(s.handleValidate))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(RunsURI, "Stored simulation runs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids := []string{}
		if store := s.engine.Store(); store != nil {
			listed, err := store.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list runs: %w", err)
			}
			ids = append(ids, listed...)
		}
		data, err := json.Marshal(map[string][]string{"runs": ids})
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RunsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args SimulateArgs) (SimulateResponse, error) {
	if args.Steps < 0 || args.Steps > MaxSteps {
		return SimulateResponse{}, fmt.Errorf("steps must be between 0 and %d", MaxSteps)
	}
	var extra []markov.Option
	if args.Seed != nil {
		extra = append(extra, markov.WithRandom(markov.NewSeeded(*args.Seed)))
	}
	m, err := s.build(args.Document, args.Format, extra...)
	if err != nil {
		return SimulateResponse{}, err
	}

	run, err := s.engine.Simulate(ctx, m, args.Steps)
	if err != nil {
		return SimulateResponse{}, fmt.Errorf("simulate failed: %w", err)
	}
	s.logger.Debug("MCP Simulate", "run_id", run.ID, "final", run.Final)
	return SimulateResponse{
		RunID:     run.ID,
		History:   run.History,
		Final:     run.Final,
		StepCount: run.StepCount,
	}, nil
}

func (s *Server) handleDot(ctx context.Context, request mcp.CallToolRequest, args DotArgs) (DotResponse, error) {
	if args.Steps < 0 || args.Steps > MaxSteps {
		return DotResponse{}, fmt.Errorf("steps must be between 0 and %d", MaxSteps)
	}
	m, err := s.build(args.Document, args.Format)
	if err != nil {
		return DotResponse{}, err
	}
	m.StepN(args.Steps)
	return DotResponse{Dot: m.Serialize()}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (analysis.Report, error) {
	m, err := s.build(args.Document, args.Format)
	if err != nil {
		return analysis.Report{}, err
	}
	report, err := s.engine.Analyze(m)
	if err != nil {
		return analysis.Report{}, err
	}
	return *report, nil
}

// build parses a document and builds it with the engine's model options.
// Options in extra win over the engine's.
func (s *Server) build(document, format string, extra ...markov.Option) (*markov.Model, error) {
	if strings.TrimSpace(document) == "" {
		return nil, errors.New("document is required")
	}
	doc, err := definition.Parse([]byte(document), detectFormat(document, format))
	if err != nil {
		return nil, err
	}
	opts := append(s.engine.ModelOptions(), extra...)
	m, err := doc.Build(opts...)
	if err != nil {
		s.logger.Warn("MCP: invalid model", "err", err)
		return nil, err
	}
	return m, nil
}

func detectFormat(document, format string) definition.Format {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return definition.FormatYAML
	case "json":
		return definition.FormatJSON
	}
	if strings.HasPrefix(strings.TrimSpace(document), "{") {
		return definition.FormatJSON
	}
	return definition.FormatYAML
}
