// Package convert drives a single dcm2niix invocation: it maps validated
// options to the binary's argument list, runs it synchronously, republishes
// its stdout through the injected logger, and relocates the artifact when a
// single output file was requested.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/fepegar/dcm2niiw/internal/execx"
	"github.com/fepegar/dcm2niiw/internal/options"
)

// banner is how dcm2niix identifies itself on the first stdout line.
const banner = "Chris Rorden"

// Execer runs a command and reports its outcome. Tests substitute fakes.
type Execer func(ctx context.Context, name string, args ...string) execx.Result

// Converter wraps one dcm2niix binary behind an injected logger.
type Converter struct {
	Log  *log.Logger
	Bin  string
	Exec Execer
}

// New returns a Converter that really spawns bin.
func New(logger *log.Logger, bin string) *Converter {
	return &Converter{Log: logger, Bin: bin, Exec: execx.Capture}
}

// Run performs one conversion. It blocks until the child process exits.
//
// A non-zero exit from dcm2niix aborts the operation with *ExecutionError
// (the strict variant of the wrapper; stderr is logged at error level
// first). Validation failures surface before any process is spawned.
func (c *Converter) Run(ctx context.Context, opts options.Options) error {
	// A literal -h among the pass-through args short-circuits everything:
	// only the help flag is forwarded and no relocation logic runs.
	for _, a := range opts.ExtraArgs {
		if a == "-h" {
			return c.invoke(ctx, "-h")
		}
	}

	if err := opts.Validate(); err != nil {
		return err
	}

	depth := opts.Depth
	outFolder := opts.OutFolder
	tempDir := ""
	if opts.OutFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.OutFile), 0o755); err != nil {
			return fmt.Errorf("create output parent: %w", err)
		}
		dir, err := os.MkdirTemp("", "dcm2niiw-")
		if err != nil {
			return fmt.Errorf("create temp output folder: %w", err)
		}
		// Single-file output always converts exactly the given folder.
		depth = 0
		outFolder = dir
		tempDir = dir
	} else if outFolder != "" {
		if err := os.MkdirAll(outFolder, 0o755); err != nil {
			return fmt.Errorf("create output folder: %w", err)
		}
	}

	if err := c.invoke(ctx, opts.Args(depth, outFolder)...); err != nil {
		return err
	}

	if tempDir != "" {
		if err := c.relocate(tempDir, opts.OutFile); err != nil {
			return err
		}
	}
	c.Log.Info("conversion complete")
	return nil
}

// PrintHelp runs the wrapped binary with -h and writes its help text to
// stdout unmodified.
func (c *Converter) PrintHelp(ctx context.Context) error {
	res := c.exec()(ctx, c.Bin, "-h")
	if res.Code != 0 && res.Stdout == "" {
		return &ExecutionError{Code: res.Code, Stderr: res.Stderr}
	}
	fmt.Print(res.Stdout)
	return nil
}

// invoke spawns the binary and republishes its stdout line by line.
func (c *Converter) invoke(ctx context.Context, args ...string) error {
	c.Log.Debugf("running: %s %s", c.Bin, strings.Join(args, " "))
	res := c.exec()(ctx, c.Bin, args...)
	if res.Code != 0 {
		c.Log.Errorf("dcm2niix failed with error code %d", res.Code)
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			c.Log.Error(stderr)
		}
		return &ExecutionError{Code: res.Code, Stderr: res.Stderr}
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		c.republish(line)
	}
	return nil
}

// republish classifies one dcm2niix stdout line and re-emits it at the
// matching severity.
func (c *Converter) republish(line string) {
	switch {
	case line == "":
	case strings.HasPrefix(line, "Warning: "):
		c.Log.Warn(strings.TrimPrefix(line, "Warning: "))
	case strings.HasPrefix(line, "Conversion required"):
		c.Log.WithField("status", "ok").Info(line)
	case strings.HasPrefix(line, banner):
		c.Log.Debug(line)
	default:
		c.Log.Info(line)
	}
}

func (c *Converter) exec() Execer {
	if c.Exec != nil {
		return c.Exec
	}
	return execx.Capture
}
