// Package journal persists a per-run record of the bootstrap sequence: which
// steps ran, what they printed, and how they ended. The journal never fails
// the deploy; write errors are dropped.
package journal

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a journal entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Journal appends timestamped entries for a single bootstrap run to a text
// file under .groundwork/journal/.
type Journal struct {
	path string
	mu   sync.Mutex
}

// New creates a journal file for a fresh run inside dir. File names embed the
// start time so consecutive runs never clobber each other.
func New(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: ensure dir: %w", err)
	}
	name := fmt.Sprintf("run-%s.log", time.Now().UTC().Format("20060102-150405"))
	return &Journal{path: filepath.Join(dir, name)}, nil
}

// Open returns a journal appending to an explicit path. Used by tests and by
// tools that want a stable file name.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: ensure dir: %w", err)
	}
	return &Journal{path: path}, nil
}

// Path returns the file backing this journal.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Append writes a single entry.
func (j *Journal) Append(level Level, message string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	line := fmt.Sprintf("%s %-5s %s\n",
		time.Now().UTC().Format(time.RFC3339),
		string(level),
		strings.TrimSpace(message),
	)
	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// StepStarted records that a step began executing.
func (j *Journal) StepStarted(name string) {
	j.Append(LevelInfo, fmt.Sprintf("step %s: started", name))
}

// StepCompleted records a successful step.
func (j *Journal) StepCompleted(name string) {
	j.Append(LevelInfo, fmt.Sprintf("step %s: ok", name))
}

// StepFailed records a failed step with the exit code that will become the
// process status.
func (j *Journal) StepFailed(name string, exitCode int, err error) {
	j.Append(LevelError, fmt.Sprintf("step %s: failed (exit %d): %v", name, exitCode, err))
}

// SequenceCompleted records the overall outcome of a run.
func (j *Journal) SequenceCompleted(err error) {
	if err != nil {
		j.Append(LevelError, fmt.Sprintf("bootstrap aborted: %v", err))
		return
	}
	j.Append(LevelInfo, "bootstrap complete")
}

// Writer returns an io.Writer that appends raw tool output line by line under
// the given step name. Safe for concurrent use with Append.
func (j *Journal) Writer(stepName string) *OutputWriter {
	return &OutputWriter{journal: j, step: stepName}
}

// Tail returns up to maxLines of the most recent entries.
func (j *Journal) Tail(maxLines int) []string {
	if j == nil || maxLines <= 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	file, err := os.Open(j.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// OutputWriter splits tool output into lines and records each as a journal
// entry tagged with the step it came from.
type OutputWriter struct {
	journal *Journal
	step    string
	buf     []byte
	mu      sync.Mutex
}

// Write satisfies io.Writer. Partial lines are buffered until a newline
// arrives or Flush is called.
func (w *OutputWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:idx]), "\r")
		w.buf = w.buf[idx+1:]
		if strings.TrimSpace(line) == "" {
			continue
		}
		w.journal.Append(LevelInfo, fmt.Sprintf("%s | %s", w.step, line))
	}
	return len(p), nil
}

// Flush records any buffered partial line.
func (w *OutputWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if line := strings.TrimSpace(string(w.buf)); line != "" {
		w.journal.Append(LevelInfo, fmt.Sprintf("%s | %s", w.step, line))
	}
	w.buf = nil
}
