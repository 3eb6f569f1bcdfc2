// Package bootstrap assembles and executes the deployment bootstrap
// sequence: upgrade the package installer, install manifest dependencies,
// ensure the static assets directory, collect static files, apply database
// migrations. Execution is strictly ordered and fail-fast; the first
// non-zero exit aborts everything after it and becomes the process status.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/mkock/bootseq/v2"

	"github.com/groundworklabs/groundwork/internal/config"
	"github.com/groundworklabs/groundwork/internal/journal"
	"github.com/groundworklabs/groundwork/internal/step"
)

// Progress reports one completed step, or the end of the run when Done is
// set. Err carries the step failure, if any.
type Progress struct {
	Step string
	Err  error
	Done bool
}

// Sequence is an assembled, ready-to-run bootstrap.
type Sequence struct {
	steps   []step.Step
	journal *journal.Journal
}

// New builds the sequence for a project. The journal may be nil, in which
// case nothing is recorded.
func New(cfg *config.Config, runner *step.Runner, jrnl *journal.Journal) (*Sequence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("bootstrap: runner is required")
	}
	return &Sequence{
		steps:   buildSteps(cfg, runner),
		journal: jrnl,
	}, nil
}

// Steps returns the assembled steps in execution order.
func (s *Sequence) Steps() []step.Step {
	out := make([]step.Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Without returns a copy of the sequence with the named steps removed.
// Unknown names are ignored.
func (s *Sequence) Without(names ...string) *Sequence {
	if len(names) == 0 {
		return s
	}
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}
	kept := make([]step.Step, 0, len(s.steps))
	for _, st := range s.steps {
		if drop[st.Name()] {
			continue
		}
		kept = append(kept, st)
	}
	return &Sequence{steps: kept, journal: s.journal}
}

// Names returns the step names in execution order.
func (s *Sequence) Names() []string {
	names := make([]string, len(s.steps))
	for i, st := range s.steps {
		names[i] = st.Name()
	}
	return names
}

// Run executes the whole sequence and blocks until it finishes. The returned
// error, if any, is the first step failure; unwrap with errors.As to
// *step.Error for the exit code.
func (s *Sequence) Run(ctx context.Context) error {
	agent, err := s.agent(ctx)
	if err != nil {
		return err
	}
	if err := agent.Up(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	runErr := agent.Wait()
	s.journal.SequenceCompleted(runErr)
	return runErr
}

// Start launches the sequence and returns a channel of per-step progress
// reports, ending with a Done report. Used by watch mode; plain runs go
// through Run.
func (s *Sequence) Start(ctx context.Context) (<-chan Progress, error) {
	agent, err := s.agent(ctx)
	if err != nil {
		return nil, err
	}
	if err := agent.Up(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	events, err := agent.Progress()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	out := make(chan Progress, len(s.steps)+1)
	go func() {
		defer close(out)
		var firstErr error
		for ev := range events {
			if ev.Service == "" {
				// Terminal marker from the sequence engine.
				if ev.Err != nil && firstErr == nil {
					firstErr = ev.Err
				}
				continue
			}
			if ev.Err != nil && firstErr == nil {
				firstErr = ev.Err
			}
			out <- Progress{Step: ev.Service, Err: ev.Err}
		}
		s.journal.SequenceCompleted(firstErr)
		out <- Progress{Done: true, Err: firstErr}
	}()
	return out, nil
}

// agent wires the steps into a linear boot sequence. Each step is chained
// after the previous one, so the engine never runs two steps concurrently
// and stops at the first failure.
func (s *Sequence) agent(ctx context.Context) (*bootseq.Agent, error) {
	if len(s.steps) == 0 {
		return nil, fmt.Errorf("bootstrap: no steps to run")
	}
	mgr := bootseq.New("deploy-bootstrap")
	prev := ""
	for _, st := range s.steps {
		svc := mgr.Register(st.Name(), s.upFunc(ctx, st), bootseq.NoOp)
		if prev != "" {
			svc.After(prev)
		}
		prev = st.Name()
	}
	agent, err := mgr.Agent()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return agent, nil
}

// upFunc adapts a step to the sequence engine, recording the outcome in the
// journal on the way through.
func (s *Sequence) upFunc(ctx context.Context, st step.Step) bootseq.Func {
	return func() error {
		s.journal.StepStarted(st.Name())
		if err := st.Run(ctx); err != nil {
			s.journal.StepFailed(st.Name(), step.ExitCodeOf(err), err)
			return err
		}
		s.journal.StepCompleted(st.Name())
		return nil
	}
}
