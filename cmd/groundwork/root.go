package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/internal/config"
	"github.com/groundworklabs/groundwork/internal/step"
)

var (
	cfgFile    string
	projectDir string
)

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "groundwork — deployment bootstrap for web application projects",
	Long: `Groundwork prepares a web application checkout for deployment:
it upgrades the package installer, installs manifest dependencies, ensures
the static assets directory exists, collects static files, and applies
database migrations — in that order, aborting on the first failure.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to groundwork.yaml (default: <project-dir>/groundwork.yaml)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "project directory (default: current directory)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute is the entry point called by main. A failed step's exit code
// becomes the process exit code, unmapped.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(step.ExitCodeOf(err))
	}
}

func resolveProjectDir() (string, error) {
	if projectDir != "" {
		abs, err := filepath.Abs(projectDir)
		if err != nil {
			return "", fmt.Errorf("resolving project dir: %w", err)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

func loadConfig() (*config.Config, error) {
	dir, err := resolveProjectDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.NewConfig(dir, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
