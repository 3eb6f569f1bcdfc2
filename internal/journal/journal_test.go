package journal

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "run.log"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	for i := 0; i < 5; i++ {
		j.Append(LevelInfo, "entry")
	}
	lines := j.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "INFO") || !strings.Contains(line, "entry") {
			t.Fatalf("unexpected line %q", line)
		}
	}
}

func TestStepLifecycleEntries(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "run.log"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	j.StepStarted("collect-static")
	j.StepFailed("collect-static", 4, errors.New("collectstatic blew up"))
	j.SequenceCompleted(errors.New("step collect-static failed"))

	lines := j.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "failed (exit 4)") {
		t.Fatalf("failure line = %q, missing exit code", lines[1])
	}
	if !strings.Contains(lines[2], "ERROR") || !strings.Contains(lines[2], "bootstrap aborted") {
		t.Fatalf("outcome line = %q", lines[2])
	}
}

func TestWriterSplitsLines(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "run.log"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	w := j.Writer("stdout")
	if _, err := w.Write([]byte("first line\nsecond ")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := w.Write([]byte("half\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Flush()

	lines := j.Tail(10)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "stdout | first line") {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "stdout | second half") {
		t.Fatalf("line 1 = %q", lines[1])
	}
}

func TestNilJournalIsSafe(t *testing.T) {
	var j *Journal
	j.Append(LevelInfo, "ignored")
	j.StepStarted("x")
	j.SequenceCompleted(nil)
	if got := j.Path(); got != "" {
		t.Fatalf("nil journal path = %q", got)
	}
	if lines := j.Tail(5); lines != nil {
		t.Fatalf("nil journal tail = %v", lines)
	}
}
