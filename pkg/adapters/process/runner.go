package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// run executes proc with extra args, feeding stdin and returning stdout.
// Stderr is folded into the error on failure.
func run(ctx context.Context, dir string, proc ProcessConfig, stdin []byte, extra ...string) ([]byte, error) {
	args := append(append([]string{}, proc.Args...), extra...)
	cmd := exec.CommandContext(ctx, proc.Command, args...)
	cmd.Dir = dir

	env := make([]string, 0, len(proc.Environment))
	for k, v := range proc.Environment {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Environ(), env...)

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s failed: %w. Stderr: %s",
			proc.Command, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
