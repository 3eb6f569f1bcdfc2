package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/internal/bootstrap"
	"github.com/groundworklabs/groundwork/internal/config"
	"github.com/groundworklabs/groundwork/internal/journal"
	"github.com/groundworklabs/groundwork/internal/logging"
	"github.com/groundworklabs/groundwork/internal/step"
	"github.com/groundworklabs/groundwork/internal/tui"
)

var (
	watchMode  bool
	skipSteps  []string
	runTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the deployment bootstrap sequence",
	Long: `Run executes the bootstrap steps in strict order with fail-fast
semantics: the first non-zero exit aborts the remaining steps and becomes
groundwork's own exit code. The failing tool's stderr is the primary
diagnostic; every run is also recorded under .groundwork/journal/.`,
	RunE: runBootstrap,
}

func init() {
	runCmd.Flags().BoolVar(&watchMode, "watch", false, "render live step progress instead of plain output")
	runCmd.Flags().StringArrayVar(&skipSteps, "skip", nil, "step name to skip (repeatable)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "abort the whole sequence after this duration (0 = no limit)")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.EnsureProjectDirs(cfg.ProjectDir); err != nil {
		return fmt.Errorf("preparing %s: %w", config.GroundworkDir, err)
	}

	logger, err := logging.New(cfg.ProjectDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	jrnl, err := journal.New(cfg.JournalDir())
	if err != nil {
		return err
	}

	runner := step.NewRunner(cfg.ProjectDir)
	outWriter := jrnl.Writer("stdout")
	errWriter := jrnl.Writer("stderr")
	defer outWriter.Flush()
	defer errWriter.Flush()
	if watchMode {
		// The TUI owns the terminal; tool output goes to the journal only.
		runner.Stdout = outWriter
		runner.Stderr = errWriter
	} else {
		runner.Stdout = io.MultiWriter(os.Stdout, outWriter)
		runner.Stderr = io.MultiWriter(os.Stderr, errWriter)
	}

	seq, err := bootstrap.New(cfg, runner, jrnl)
	if err != nil {
		return err
	}
	seq = seq.Without(skipSteps...)

	ctx, cancel := sequenceContext(cmd.Context())
	defer cancel()

	logger.Printf("bootstrap started (journal: %s)", jrnl.Path())
	if watchMode {
		err = runWatch(ctx, seq)
	} else {
		err = runPlain(ctx, seq)
	}
	if err != nil {
		logger.Printf("bootstrap aborted: %v", err)
		return err
	}
	logger.Printf("bootstrap complete")
	return nil
}

func sequenceContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if runTimeout > 0 {
		return context.WithTimeout(parent, runTimeout)
	}
	return context.WithCancel(parent)
}

// runPlain prints one line per completed step, CI-friendly.
func runPlain(ctx context.Context, seq *bootstrap.Sequence) error {
	events, err := seq.Start(ctx)
	if err != nil {
		return err
	}
	var runErr error
	for ev := range events {
		switch {
		case ev.Done:
			if ev.Err != nil {
				runErr = ev.Err
			}
		case ev.Err != nil:
			fmt.Fprintf(os.Stderr, "✗ %s\n", ev.Step)
		default:
			fmt.Printf("✓ %s\n", ev.Step)
		}
	}
	return runErr
}

// runWatch renders the live step board. Quitting the view cancels the
// context, which aborts any in-flight step.
func runWatch(ctx context.Context, seq *bootstrap.Sequence) error {
	events, err := seq.Start(ctx)
	if err != nil {
		return err
	}
	app := tui.NewApp(seq.Names(), events)
	p := tea.NewProgram(app)
	model, err := p.Run()
	if err != nil {
		return fmt.Errorf("running progress view: %w", err)
	}
	if final, ok := model.(*tui.App); ok {
		return final.Err()
	}
	return nil
}
