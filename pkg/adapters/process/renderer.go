package process

import (
	"context"
	"fmt"
	"os"
)

// DotRenderer implements ports.FrameRenderer with Graphviz.
type DotRenderer struct {
	proc   ProcessConfig
	dpi    int
	format string
	dir    string
}

// RendererOption configures the renderer.
type RendererOption func(*DotRenderer)

// WithDPI sets the output resolution. The canvas is a 1x1 inch square, so
// DPI is also the image size in pixels.
func WithDPI(dpi int) RendererOption {
	return func(r *DotRenderer) {
		r.dpi = dpi
	}
}

// WithFormat sets the raster format passed to -T.
func WithFormat(format string) RendererOption {
	return func(r *DotRenderer) {
		r.format = format
	}
}

// WithWorkDir sets the working directory of the dot process.
func WithWorkDir(dir string) RendererOption {
	return func(r *DotRenderer) {
		r.dir = dir
	}
}

// NewDotRenderer creates a renderer for proc (see DefaultConfig).
func NewDotRenderer(proc ProcessConfig, opts ...RendererOption) *DotRenderer {
	r := &DotRenderer{
		proc:   proc,
		dpi:    320,
		format: "png",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Args returns the layout arguments appended to the configured ones.
func (r *DotRenderer) Args() []string {
	return []string{"-Gsize=1,1!", fmt.Sprintf("-Gdpi=%d", r.dpi), "-T", r.format}
}

// RenderFrame pipes dot to the renderer and writes its output at path.
func (r *DotRenderer) RenderFrame(ctx context.Context, dot []byte, path string) error {
	out, err := run(ctx, r.dir, r.proc, dot, r.Args()...)
	if err != nil {
		return fmt.Errorf("failed to render frame %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write frame %s: %w", path, err)
	}
	return nil
}
