package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/chainviz/internal/presentation/graph"
	httpAdapter "github.com/aretw0/chainviz/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/chainviz/pkg/adapters/mcp"
	"github.com/aretw0/chainviz/pkg/animation"
	"github.com/aretw0/chainviz/pkg/definition"
	"github.com/aretw0/chainviz/pkg/markov"
)

// ErrValidation is returned by RunValidate in strict mode when the model has
// unreachable states.
var ErrValidation = errors.New("model has unreachable states")

// GifOptions configure RunGif. Zero values fall back to the configuration.
type GifOptions struct {
	Model           string
	Output          string
	Iterations      int
	StatesPerSecond float64
	KeepFrames      bool
	Quiet           bool
}

// RunGif renders an animated GIF of the model.
func RunGif(ctx context.Context, app *App, opts GifOptions, w io.Writer) error {
	m, err := app.Engine.Load(opts.Model)
	if err != nil {
		return err
	}

	settings := animation.Settings{
		Iterations:      app.Config.Iterations,
		StatesPerSecond: app.Config.StatesPerSecond,
		Output:          opts.Output,
		WorkDir:         app.Config.WorkDir,
		KeepFrames:      opts.KeepFrames,
	}
	if opts.Iterations > 0 {
		settings.Iterations = opts.Iterations
	}
	if opts.StatesPerSecond > 0 {
		settings.StatesPerSecond = opts.StatesPerSecond
	}

	res, err := app.Engine.Animate(ctx, m, settings)
	if err != nil {
		return err
	}
	if !opts.Quiet {
		printSystemMessage(w, "Wrote %s (%d frames, run %s).", res.Output, len(res.Frames), res.RunID)
		if opts.KeepFrames {
			printSystemMessage(w, "Frames kept in %s.", res.FrameDir)
		}
	}
	return nil
}

// RunSimulate advances the model without rendering and prints the run.
func RunSimulate(ctx context.Context, app *App, model string, steps int, asJSON bool, w io.Writer) error {
	m, err := app.Engine.Load(model)
	if err != nil {
		return err
	}
	run, err := app.Engine.Simulate(ctx, m, steps)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	fmt.Fprintf(w, "run:   %s\n", run.ID)
	fmt.Fprintf(w, "steps: %d\n", run.StepCount)
	fmt.Fprintf(w, "final: %s\n", run.Final)
	fmt.Fprintf(w, "path:  %s\n", strings.Join(run.History, " -> "))
	return nil
}

// RunGraph prints the model as dot, mermaid, json or yaml after advancing it
// by steps (so dot and mermaid show the visited states).
func RunGraph(app *App, model, format string, steps int, w io.Writer) error {
	if steps < 0 {
		return fmt.Errorf("steps must be >= 0, got %d", steps)
	}
	m, err := app.Engine.Load(model)
	if err != nil {
		return err
	}
	m.StepN(steps)

	switch format {
	case "dot", "":
		_, err = fmt.Fprintln(w, m.Serialize())
	case "mermaid":
		var overlay *graph.GraphOverlay
		if steps > 0 {
			overlay = graph.OverlayFromModel(m)
		}
		_, err = fmt.Fprint(w, graph.GenerateMermaid(m, overlay))
	case "json", "yaml":
		var data []byte
		data, err = definition.FromModel(m).Encode(definition.Format(format))
		if err == nil {
			_, err = w.Write(data)
		}
	default:
		return fmt.Errorf("unknown graph format %q (want dot, mermaid, json or yaml)", format)
	}
	return err
}

// RunValidate loads the model and prints its structure report. Loading
// errors (bad probabilities, undeclared states) are returned as is.
func RunValidate(app *App, model string, strict, asJSON bool, w io.Writer) error {
	m, err := app.Engine.Load(model)
	if err != nil {
		return err
	}
	report, err := app.Engine.Analyze(m)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "states:      %d\n", len(m.States()))
		fmt.Fprintf(w, "start:       %s\n", report.Start)
		fmt.Fprintf(w, "reachable:   %s\n", strings.Join(report.Reachable, ", "))
		if len(report.Unreachable) > 0 {
			fmt.Fprintf(w, "unreachable: %s\n", strings.Join(report.Unreachable, ", "))
		}
		if len(report.Absorbing) > 0 {
			fmt.Fprintf(w, "absorbing:   %s\n", strings.Join(report.Absorbing, ", "))
		}
		for _, s := range m.States() {
			if p, ok := report.Stay[s.Name]; ok {
				fmt.Fprintf(w, "stay:        %s %s\n", s.Name, markov.FormatProbability(p))
			}
		}
		for i, c := range report.Classes {
			kind := "transient"
			if c.Closed {
				kind = "closed"
			}
			fmt.Fprintf(w, "class %d:     {%s} %s\n", i+1, strings.Join(c.States, ", "), kind)
		}
	}

	if strict && len(report.Unreachable) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(report.Unreachable, ", "))
	}
	return nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, app *App, addr string, w io.Writer) error {
	if addr == "" {
		addr = app.Config.Server.Addr
	}
	srv := &http.Server{
		Addr: addr,
		Handler: httpAdapter.NewHandler(
			httpAdapter.WithStore(app.Store),
			httpAdapter.WithMetrics(app.Metrics),
			httpAdapter.WithLogger(app.Logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(w, "Starting chainviz server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		printSystemMessage(w, "chainviz server stopped gracefully")
		return nil
	}
}

// ErrUnknownTransport is returned by ServeMCP for transports other than stdio and sse.
var ErrUnknownTransport = errors.New("unknown transport")

// ServeMCP exposes the engine as an MCP server. Messages go to w, which must
// not be the stdio channel.
func ServeMCP(ctx context.Context, app *App, transport string, port int, w io.Writer) error {
	srv := mcpAdapter.NewServer(app.Engine, mcpAdapter.WithLogger(app.Logger))

	switch transport {
	case "stdio", "":
		printSystemMessage(w, "Starting chainviz MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		printSystemMessage(w, "Starting chainviz MCP server (SSE) on port %d", port)
		if err := srv.ServeSSE(ctx, port); err != nil {
			return err
		}
		printSystemMessage(w, "MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("%w: %s (supported: stdio, sse)", ErrUnknownTransport, transport)
	}
}
