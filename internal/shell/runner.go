// Package shell is the capability boundary for external binaries. The
// backend shells out for the few things Go cannot do natively (rar
// listings, block-device queries, mounting); everything that crosses that
// boundary goes through a Runner so callers can be tested with a fake.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner executes an external binary and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs binaries from PATH.
type ExecRunner struct{}

// Run executes name with args, returning stdout. A non-zero exit carries
// the tail of stderr in the error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}
