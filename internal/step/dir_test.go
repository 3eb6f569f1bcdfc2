package step

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirCreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "static")
	s := NewEnsureDirStep("ensure-static-dir", target)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", target)
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "static")
	s := NewEnsureDirStep("ensure-static-dir", target)
	for i := 0; i < 2; i++ {
		if err := s.Run(context.Background()); err != nil {
			t.Fatalf("run %d returned error: %v", i+1, err)
		}
	}
}

func TestEnsureDirFailureAborts(t *testing.T) {
	s := NewEnsureDirStep("ensure-static-dir", "/somewhere/static")
	s.mkdirAll = func(string) error {
		return fmt.Errorf("permission denied")
	}
	err := s.Run(context.Background())
	var stepErr *Error
	if !errors.As(err, &stepErr) {
		t.Fatalf("error %T is not a *step.Error", err)
	}
	if stepErr.Step != "ensure-static-dir" {
		t.Fatalf("step name = %q", stepErr.Step)
	}
	if stepErr.ExitCode() != 1 {
		t.Fatalf("exit code = %d, want 1", stepErr.ExitCode())
	}
}
