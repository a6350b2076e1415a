package cli

import (
	"fmt"
	"os"

	"github.com/imkarma/crmboard/internal/config"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize crmboard in the current directory",
	Long:  "Creates a .crmboard/ directory with default config and database.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Check if already initialized.
	if _, err := os.Stat(projectDir); err == nil {
		return fmt.Errorf("crmboard already initialized (%s/ exists)", projectDir)
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", projectDir, err)
	}

	// Write default config.
	cfgPath := projectPath("config.yaml")
	cfg := config.DefaultConfig()
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Create database by opening store (migration runs automatically).
	s, err := store.New(config.Resolve(cfgPath, cfg.Database))
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	s.Close()

	fmt.Fprintf(out, "Initialized crmboard in %s/\n", projectDir)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Run: crmboard customer create \"Acme Corp\" --type lead")
	fmt.Fprintln(out, "  2. Run: crmboard task create \"Send proposal\"")
	fmt.Fprintln(out, "  3. Run: crmboard ui")

	return nil
}
