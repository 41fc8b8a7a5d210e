package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/usecase"
)

// newClearCommand creates the clear command for deleting tasks in bulk.
func newClearCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Yes      bool
		DoneOnly bool
	}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete tasks in bulk",
		Long: `Delete every task, or only completed ones with --done.

--yes is required so the command is never run by accident.

Examples:
  # Remove completed tasks
  taskman clear --done --yes

  # Remove everything
  taskman clear --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.Yes {
				return errors.New("refusing to delete tasks without --yes")
			}

			out, err := c.ClearTasksUseCase().Execute(cmd.Context(), usecase.ClearTasksInput{
				DoneOnly: opts.DoneOnly,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", out.Deleted)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Confirm deletion")
	cmd.Flags().BoolVar(&opts.DoneOnly, "done", false, "Only delete completed tasks")

	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var flags queryFlags
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as JSON or YAML",
		Long: `Write tasks to stdout as JSON or YAML.

The search, filter and sort flags work the same way as for 'taskman list'.

Examples:
  # Back up every task
  taskman export > tasks.json

  # Open tasks as YAML
  taskman export --format yaml --status todo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The list engine carries the configured default sort
			eng := c.ListEngine()
			if err := flags.apply(eng); err != nil {
				return err
			}
			query := eng.State().Query

			out, err := c.ExportTasksUseCase().Execute(cmd.Context(), usecase.ExportTasksInput{
				Query:  &query,
				Format: strings.ToLower(format),
			})
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out.Data)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", usecase.FormatJSON, "Output format: json, yaml")

	return cmd
}

// newSeedCommand creates the seed command for inserting sample tasks.
func newSeedCommand(c *app.Container) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample tasks",
		Long: `Fill an empty store with a set of sample tasks covering every
status and priority, some overdue and some due later.

Use --replace to delete the existing tasks first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.SeedTasksUseCase().Execute(cmd.Context(), usecase.SeedTasksInput{
				Replace: replace,
			})
			if err != nil {
				if errors.Is(err, domain.ErrStoreNotEmpty) {
					return fmt.Errorf("%w (use --replace to start over)", err)
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d sample task(s)\n", len(out.Tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Delete existing tasks before seeding")

	return cmd
}

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs [id]",
		Short: "Show the operation log",
		Long: `Show entries from the taskman log file.

With a task ID, only entries for that task are shown.

Examples:
  # Last 20 entries
  taskman logs -n 20

  # Everything logged for one task
  taskman logs 0197a3c2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.TaskLog == nil || c.TaskLog.Path() == "" {
				return errors.New("file logging is disabled")
			}

			in := usecase.ShowLogsInput{Lines: lines}
			if len(args) == 1 {
				id, err := resolveTaskID(cmd, c, args[0])
				if err != nil {
					return err
				}
				in.TaskID = id
			}

			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Lines) == 0 {
				_, _ = fmt.Fprintf(w, "No log entries in %s\n", out.LogPath)
				return nil
			}
			for _, line := range out.Lines {
				_, _ = fmt.Fprintln(w, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines to show from the end (0 = all)")

	return cmd
}
