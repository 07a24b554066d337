package ports

import "context"

// FrameRenderer renders a graph description into an image file.
type FrameRenderer interface {
	// RenderFrame writes the image for dot at path.
	RenderFrame(ctx context.Context, dot []byte, path string) error
}

// Animation describes one animated image assembly.
type Animation struct {
	// Delay between frames in hundredths of a second.
	Delay float64
	// Frames is a glob matching the frame files in display order.
	Frames string
	// Output is the path of the animated image.
	Output string
}

// Animator assembles frames into an animated image.
type Animator interface {
	Animate(ctx context.Context, anim Animation) error
}
