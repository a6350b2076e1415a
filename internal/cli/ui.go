package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imkarma/crmboard/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive board",
	Long:  "Opens the drag-and-drop board. Drag cards with the mouse, or pick one up with space and move it with the arrow keys.",
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal, so logs go to the configured file.
	sess, err := openSession(true)
	if err != nil {
		return err
	}
	defer sess.Close()

	variants, err := selectVariants(sess.cfg, nil)
	if err != nil {
		return err
	}

	model := tui.New(sess.store, tui.Options{
		Variants:           variants,
		ActivationDistance: sess.cfg.Drag.ActivationDistance,
		Workers:            sess.cfg.Dispatch.Workers,
		Timeout:            sess.cfg.DispatchTimeout(),
		RefreshInterval:    sess.cfg.RefreshInterval(),
		Logger:             sess.log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Let in-flight reclassifications land before the store closes.
	start := time.Now()
	if m, ok := finalModel.(tui.Model); ok {
		m.Wait()
	}
	sess.log.WithField("took", time.Since(start)).Debug("dispatchers drained")
	return nil
}
