package step

import (
	"context"
	"fmt"
	"os"
)

func defaultMkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// EnsureDirStep creates a directory (parents included) if it is absent. An
// existing directory is a no-op, so the step is safe to run on every deploy.
type EnsureDirStep struct {
	name string
	path string
	// mkdirAll is swappable for permission-failure tests.
	mkdirAll func(string) error
}

// NewEnsureDirStep returns a step that guarantees path exists.
func NewEnsureDirStep(name, path string) *EnsureDirStep {
	return &EnsureDirStep{name: name, path: path, mkdirAll: defaultMkdirAll}
}

// Name returns the step identifier.
func (s *EnsureDirStep) Name() string {
	return s.name
}

// Path returns the directory the step guarantees.
func (s *EnsureDirStep) Path() string {
	return s.path
}

// Detail describes the step for plan output.
func (s *EnsureDirStep) Detail() string {
	return fmt.Sprintf("mkdir -p %s", s.path)
}

// Run creates the directory tree. Failure (normally a permission problem)
// aborts the sequence like any other step.
func (s *EnsureDirStep) Run(_ context.Context) error {
	if err := s.mkdirAll(s.path); err != nil {
		return &Error{Step: s.name, Code: 1, Err: fmt.Errorf("ensure directory %s: %w", s.path, err)}
	}
	return nil
}
