package step

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// Runner executes external commands on behalf of command-backed steps.
//
// Unlike a hermetic task runner, the bootstrap inherits the invoking shell's
// environment untouched: whatever the package installer or the management
// tool needs (virtualenv paths, database URLs) comes in from the outside.
// The runner's only job is to stream the tool's output through, wait for it,
// and report the exit status truthfully.
type Runner struct {
	// Dir is the working directory commands run in, normally the project dir.
	Dir string

	// Stdout and Stderr receive the tool's output as it is produced. The
	// failing tool's own diagnostics are the primary failure information, so
	// these default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a Runner rooted at dir that streams to the process
// standard streams.
func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts argv, streams its output, and waits for it to finish. It
// returns the command's exit code. A non-nil error means the command could
// not be run at all (missing binary, cancelled context), not that it failed.
func (r *Runner) Run(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("step: empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	// cmd.Env stays nil so the child inherits the full process environment.

	// Place the child in its own process group so cancellation can take the
	// whole tree down, not just the immediate child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("step: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("step: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("step: start %s: %w", argv[0], err)
	}

	// Drain both pipes before Wait; Wait closes them.
	grp := new(errgroup.Group)
	grp.Go(func() error {
		_, err := io.Copy(r.stdoutWriter(), stdout)
		return err
	})
	grp.Go(func() error {
		_, err := io.Copy(r.stderrWriter(), stderr)
		return err
	})
	pumpErr := grp.Wait()

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return 0, fmt.Errorf("step: run %s: %w", argv[0], ctx.Err())
	}
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("step: run %s: %w", argv[0], waitErr)
	}
	if pumpErr != nil {
		return 0, fmt.Errorf("step: stream %s output: %w", argv[0], pumpErr)
	}
	return 0, nil
}

func (r *Runner) stdoutWriter() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return io.Discard
}

func (r *Runner) stderrWriter() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return io.Discard
}
