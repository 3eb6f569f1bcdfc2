package step

import (
	"context"
	"fmt"
	"strings"
)

// CommandStep runs one external command through a Runner. A non-zero exit
// becomes a *Error carrying that exact code, so the failing tool's status
// propagates to the groundwork process unchanged.
type CommandStep struct {
	name   string
	argv   []string
	runner *Runner
}

// NewCommandStep wraps argv as a named bootstrap step.
func NewCommandStep(name string, argv []string, runner *Runner) *CommandStep {
	return &CommandStep{name: name, argv: argv, runner: runner}
}

// Name returns the step identifier used in progress reports and the journal.
func (s *CommandStep) Name() string {
	return s.name
}

// Argv returns the command line this step will run.
func (s *CommandStep) Argv() []string {
	argv := make([]string, len(s.argv))
	copy(argv, s.argv)
	return argv
}

// Detail describes the command without running it.
func (s *CommandStep) Detail() string {
	return strings.Join(s.argv, " ")
}

// Run executes the command and translates failure into a *Error.
func (s *CommandStep) Run(ctx context.Context) error {
	code, err := s.runner.Run(ctx, s.argv)
	if err != nil {
		return &Error{Step: s.name, Code: 1, Err: err}
	}
	if code != 0 {
		return &Error{Step: s.name, Code: code, Err: fmt.Errorf("%s exited with status %d", s.argv[0], code)}
	}
	return nil
}
