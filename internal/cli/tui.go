package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/tui"
)

// newTUICommand creates the tui command for launching the interactive TUI.
// Running taskman without arguments does the same.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive TUI",
		Long:  `Launch the interactive terminal user interface for managing tasks.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}

// launchTUI runs the TUI until the user quits.
func launchTUI(c *app.Container) error {
	model := tui.New(c)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
