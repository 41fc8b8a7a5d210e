// Package cli provides the command-line interface for taskman.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskman/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
)

// DataDirFlag is the persistent flag selecting the data directory.
// main reads it before the container is built.
const DataDirFlag = "data-dir"

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for taskman.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:   "taskman",
		Short: "Personal task manager",
		Long: `taskman keeps a list of to-do items with a title, description,
priority, status and optional due date.

Tasks are stored in a JSON file under the data directory by default;
redis and postgres stores let several terminals share one list and
see each other's changes live.

Run without arguments to open the terminal UI.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return
			}
			writeWarnings(cmd.ErrOrStderr(), c.AppConfig.Warnings)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	root.PersistentFlags().StringVar(&dataDir, DataDirFlag, "", "Data directory (default $TASKMAN_DATA_DIR or $XDG_DATA_HOME/taskman)")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	seedCmd := newSeedCommand(c)
	seedCmd.GroupID = groupSetup

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupSetup

	logsCmd := newLogsCommand(c)
	logsCmd.GroupID = groupSetup

	// Task management commands
	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	doneCmd := newDoneCommand(c)
	doneCmd.GroupID = groupTask

	startCmd := newStartCommand(c)
	startCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	clearCmd := newClearCommand(c)
	clearCmd.GroupID = groupTask

	exportCmd := newExportCommand(c)
	exportCmd.GroupID = groupTask

	tuiCmd := newTUICommand(c)
	tuiCmd.GroupID = groupTask

	// Add subcommands
	root.AddCommand(
		initCmd,
		configCmd,
		seedCmd,
		serveCmd,
		logsCmd,
		newCmd,
		listCmd,
		showCmd,
		editCmd,
		doneCmd,
		startCmd,
		rmCmd,
		clearCmd,
		exportCmd,
		tuiCmd,
	)

	return root
}

func writeWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}
