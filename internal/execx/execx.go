// Package execx runs external commands and reports their outcome as plain
// values, keeping exit-code handling in one place.
package execx

import (
	"bytes"
	"context"
	"os/exec"
)

// Result holds the outcome of a finished command.
type Result struct {
	Code   int
	Stdout string
	Stderr string
	Err    error
}

// Capture runs a command to completion, buffering stdout and stderr
// separately. The call blocks until the child exits or ctx expires.
func Capture(ctx context.Context, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else if ctx.Err() == context.DeadlineExceeded {
			code = 124
		} else {
			code = 1
		}
	}
	return Result{Code: code, Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}
