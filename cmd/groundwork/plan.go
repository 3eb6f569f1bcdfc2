package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/internal/bootstrap"
	"github.com/groundworklabs/groundwork/internal/step"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the resolved bootstrap sequence without executing it",
	RunE:  runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	seq, err := bootstrap.New(cfg, step.NewRunner(cfg.ProjectDir), nil)
	if err != nil {
		return err
	}
	fmt.Print(seq.RenderPlan())
	return nil
}
