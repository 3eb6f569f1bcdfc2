// internal/tui/app.go
//
// Watch-mode progress view for the bootstrap sequence. It uses bubbletea,
// which follows The Elm Architecture: the Model holds state, Update reacts
// to messages, View renders the current state to the terminal.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/groundworklabs/groundwork/internal/bootstrap"
	"github.com/groundworklabs/groundwork/internal/step"
)

type stepState int

const (
	stepPending stepState = iota
	stepRunning
	stepOK
	stepFailed
)

// progressMsg carries one bootstrap.Progress event into the update loop.
type progressMsg bootstrap.Progress

// App is the watch-mode model: one row per step, a spinner on the running
// one, and the first failure pinned at the bottom.
type App struct {
	names  []string
	states []stepState
	spin   spinner.Model
	events <-chan bootstrap.Progress

	err  error
	done bool
}

// NewApp builds the model for a sequence with the given step names, fed by
// the sequence's progress channel.
func NewApp(names []string, events <-chan bootstrap.Progress) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	states := make([]stepState, len(names))
	if len(states) > 0 {
		states[0] = stepRunning
	}
	return &App{names: names, states: states, spin: sp, events: events}
}

// Err returns the sequence failure observed by the view, if any.
func (a *App) Err() error {
	return a.err
}

// ExitCode returns the process exit status the run should end with.
func (a *App) ExitCode() int {
	return step.ExitCodeOf(a.err)
}

// Init starts the spinner and the progress pump.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.waitForProgress())
}

// waitForProgress blocks on the next progress event and feeds it back into
// Update as a message.
func (a *App) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		if !ok {
			return progressMsg{Done: true}
		}
		return progressMsg(ev)
	}
}

// Update reacts to progress events, spinner ticks, and key presses.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		return a.applyProgress(bootstrap.Progress(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a *App) applyProgress(ev bootstrap.Progress) (tea.Model, tea.Cmd) {
	if ev.Done {
		a.done = true
		if ev.Err != nil && a.err == nil {
			a.err = ev.Err
		}
		return a, tea.Quit
	}
	if idx := a.stepIndex(ev.Step); idx >= 0 {
		if ev.Err != nil {
			a.states[idx] = stepFailed
			if a.err == nil {
				a.err = ev.Err
			}
		} else {
			a.states[idx] = stepOK
		}
	}
	a.advanceRunning()
	return a, a.waitForProgress()
}

func (a *App) stepIndex(name string) int {
	for i, n := range a.names {
		if n == name {
			return i
		}
	}
	return -1
}

// advanceRunning marks the first pending step as running, unless a step has
// already failed.
func (a *App) advanceRunning() {
	if a.err != nil {
		return
	}
	for i, st := range a.states {
		if st == stepRunning {
			return
		}
		if st == stepPending {
			a.states[i] = stepRunning
			return
		}
	}
}

// View renders the step board.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("63")).
		Render("groundwork — deployment bootstrap")

	var lines []string
	lines = append(lines, header, "")
	for i, name := range a.names {
		lines = append(lines, fmt.Sprintf(" %s %s", a.glyph(a.states[i]), name))
	}
	if a.err != nil {
		failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
		lines = append(lines, "", failStyle.Render(a.err.Error()))
	} else if a.done {
		okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
		lines = append(lines, "", okStyle.Render("bootstrap complete"))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (a *App) glyph(st stepState) string {
	switch st {
	case stepRunning:
		return a.spin.View()
	case stepOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Render("✓")
	case stepFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Render("✗")
	default:
		return "·"
	}
}
