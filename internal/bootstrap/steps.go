package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/groundworklabs/groundwork/internal/config"
	"github.com/groundworklabs/groundwork/internal/step"
)

// Canonical step names, in execution order.
const (
	StepUpgradeInstaller    = "upgrade-installer"
	StepInstallDependencies = "install-dependencies"
	StepEnsureStaticDir     = "ensure-static-dir"
	StepCollectStatic       = "collect-static"
	StepApplyMigrations     = "apply-migrations"
)

// buildSteps assembles the five-step deploy sequence from the project
// configuration, bracketed by any configured hooks.
//
// Order is fixed: installer self-upgrade, dependency install, static dir,
// collectstatic, migrations. Both management commands run non-interactive;
// a deploy must never sit waiting on a prompt.
func buildSteps(cfg *config.Config, runner *step.Runner) []step.Step {
	var steps []step.Step

	for i, argv := range cfg.PreHooks() {
		name := fmt.Sprintf("pre-hook-%d", i+1)
		steps = append(steps, step.NewCommandStep(name, argv, runner))
	}

	upgrade := step.NewCommandStep(
		StepUpgradeInstaller,
		append(cfg.InstallerCommand(), "install", "--upgrade", "pip"),
		runner,
	)
	install := &installStep{
		manifest: cfg.ManifestPath(),
		cmd: step.NewCommandStep(
			StepInstallDependencies,
			append(cfg.InstallerCommand(), "install", "-r", cfg.ManifestPath()),
			runner,
		),
	}
	static := step.NewEnsureDirStep(StepEnsureStaticDir, cfg.StaticDirPath())
	collect := step.NewCommandStep(
		StepCollectStatic,
		append(cfg.ManageCommand(), "collectstatic", "--noinput"),
		runner,
	)
	migrate := step.NewCommandStep(
		StepApplyMigrations,
		append(cfg.ManageCommand(), "migrate", "--noinput"),
		runner,
	)
	steps = append(steps, upgrade, install, static, collect, migrate)

	for i, argv := range cfg.PostHooks() {
		name := fmt.Sprintf("post-hook-%d", i+1)
		steps = append(steps, step.NewCommandStep(name, argv, runner))
	}

	return steps
}

// installStep guards the dependency install with a manifest existence check,
// so a missing manifest aborts the sequence here with a readable error
// instead of whatever the installer prints for a bad path.
type installStep struct {
	manifest string
	cmd      *step.CommandStep
}

func (s *installStep) Name() string {
	return s.cmd.Name()
}

func (s *installStep) Detail() string {
	return s.cmd.Detail()
}

func (s *installStep) Run(ctx context.Context) error {
	if _, err := os.Stat(s.manifest); err != nil {
		return &step.Error{
			Step: s.Name(),
			Code: 1,
			Err:  fmt.Errorf("dependency manifest %s: %w", s.manifest, err),
		}
	}
	return s.cmd.Run(ctx)
}
