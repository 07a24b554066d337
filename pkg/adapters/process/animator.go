package process

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/chainviz/pkg/ports"
)

// MagickAnimator implements ports.Animator with ImageMagick.
type MagickAnimator struct {
	proc ProcessConfig
	dir  string
}

// NewMagickAnimator creates an animator for proc (see DefaultConfig).
func NewMagickAnimator(proc ProcessConfig, dir string) *MagickAnimator {
	return &MagickAnimator{proc: proc, dir: dir}
}

// Args returns the arguments appended to the configured ones.
func (a *MagickAnimator) Args(anim ports.Animation) []string {
	return []string{"-delay", strconv.FormatFloat(anim.Delay, 'f', -1, 64), anim.Frames, anim.Output}
}

// Animate runs the animator; ImageMagick expands the frame glob itself.
func (a *MagickAnimator) Animate(ctx context.Context, anim ports.Animation) error {
	if _, err := run(ctx, a.dir, a.proc, nil, a.Args(anim)...); err != nil {
		return fmt.Errorf("failed to assemble animation %s: %w", anim.Output, err)
	}
	return nil
}
