package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .groundwork directory and a default groundwork.yaml",
	Long: `Init prepares a project for groundwork: it creates the .groundwork/
directory tree (logs, journal) and writes a default groundwork.yaml if none
exists. Existing config files are never overwritten.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}
	if err := config.InitGroundworkDir(dir); err != nil {
		return fmt.Errorf("initializing %s: %w", dir, err)
	}
	fmt.Printf("initialized groundwork project in %s\n", dir)
	return nil
}
