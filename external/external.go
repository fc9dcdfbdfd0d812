// Package external spawns the native tools (benchmark generators, Infomap) and scopes their scratch space.
package external

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Prefix used to collect resource usage of the child, as "/usr/bin/time -av".
var DefaultTimeWrapper = []string{"/usr/bin/time", "-av"}

type Command struct {
	Path string
	Args []string
	Dir  string   // Working directory; empty for ours.
	Env  []string // Extra KEY=VALUE entries on top of our environment.

	// Both default to discarding output.
	Stdout io.Writer
	Stderr io.Writer

	// If non-empty, prepended to the command line (e.g. DefaultTimeWrapper).
	TimeWrapper []string

	// Non-zero exit is not an error. The caller is expected to check the outputs instead.
	AllowFailure bool
}

type ExitError struct {
	CommandLine string
	Code        int
	Err         error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit %d: %v", e.CommandLine, e.Code, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Arg formats each value with %v.
func Args(values ...any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}

func (c *Command) argv() []string {
	argv := make([]string, 0, len(c.TimeWrapper)+1+len(c.Args))
	argv = append(argv, c.TimeWrapper...)
	argv = append(argv, c.Path)
	argv = append(argv, c.Args...)
	return argv
}

func (c *Command) String() string {
	return strings.Join(c.argv(), " ")
}

// Run blocks until the process exits or ctx is done.
func (c *Command) Run(ctx context.Context) error {
	argv := c.argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	log.Debug().Msg("Exec: " + c.String())
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		if c.AllowFailure {
			log.Warn().Msg(c.Path + " exited with " + fmt.Sprint(exitErr.ExitCode()) + "; continuing")
			return nil
		}
		return &ExitError{CommandLine: c.String(), Code: exitErr.ExitCode(), Err: err}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%s: %w", c.String(), err)
}

// TempDir creates a scratch directory under base ("" for the system default).
// cleanup removes it along with everything inside.
func TempDir(base, pattern string) (dir string, cleanup func(), err error) {
	if base != "" {
		if err := os.MkdirAll(base, 0o755); err != nil {
			return "", nil, err
		}
	}
	dir, err = os.MkdirTemp(base, pattern)
	if err != nil {
		return "", nil, err
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Err(err).Msg("Failed to remove temp dir " + dir)
		}
	}, nil
}

func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// RequireFiles fails naming the first path that does not exist.
func RequireFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("expected output missing: %w", err)
		}
	}
	return nil
}
