// Package step defines the units of work that make up a bootstrap sequence
// and the process runner that command-backed steps execute through.
package step

import (
	"context"
	"errors"
	"fmt"
)

// Step is a single unit of work in the bootstrap sequence. Steps run in
// strict order and the first failure aborts everything after it.
type Step interface {
	Name() string
	Run(ctx context.Context) error
}

// Detailer is implemented by steps that can describe what they are about to
// do without doing it. The plan command relies on it.
type Detailer interface {
	Detail() string
}

// Error is the single failure kind a step can produce. It carries the exit
// code the groundwork process should terminate with, so a failing tool's
// status propagates unchanged to the caller.
type Error struct {
	Step string
	Code int
	Err  error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %s: exit status %d", e.Step, e.Code)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status that should be surfaced for this
// failure. Codes below 1 are normalized to 1 so a failed step can never
// masquerade as success.
func (e *Error) ExitCode() int {
	if e.Code < 1 {
		return 1
	}
	return e.Code
}

// ExitCodeOf maps any error to a process exit status: nil is success, a step
// failure keeps its own code, anything else is a generic failure.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var stepErr *Error
	if errors.As(err, &stepErr) {
		return stepErr.ExitCode()
	}
	return 1
}
