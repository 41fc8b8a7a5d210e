package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/engine"
	"github.com/runoshun/taskman/internal/usecase"
	"github.com/runoshun/taskman/internal/usecase/shared"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Status      string
		Due         string
		From        string
		DryRun      bool
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task.

The task is created with priority 'medium' and status 'todo' unless
--priority or --status says otherwise.

Examples:
  # Create a task
  taskman new --title "Fix login bug"

  # Create an urgent task due tomorrow
  taskman new --title "Ship release" --priority high --due 2025-06-02

  # Create tasks from a file (multiple tasks supported)
  taskman new --from tasks.md

  # Preview tasks from a file without creating
  taskman new --from tasks.md --dry-run

File format for --from:
  ---
  title: Task 1
  priority: high
  due: 2025-06-01
  ---
  Description here.

  ---
  title: Task 2
  status: in_progress
  ---`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Check if --from is specified
			if opts.From != "" {
				return createTasksFromFile(cmd, c, opts.From, opts.DryRun)
			}
			if opts.DryRun {
				return errors.New("--dry-run requires --from")
			}

			// Require --title when not using --from
			if !cmd.Flags().Changed("title") {
				return errors.New("required flag(s) \"title\" not set")
			}

			eng := c.CreateEngine()
			eng.SetTitle(opts.Title)
			eng.SetDescription(opts.Description)
			if opts.Priority != "" {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				eng.SetPriority(p)
			}
			if opts.Status != "" {
				s, err := domain.ParseStatus(opts.Status)
				if err != nil {
					return err
				}
				eng.SetStatus(s)
			}
			if opts.Due != "" {
				due, err := domain.ParseDueDate(opts.Due)
				if err != nil {
					return err
				}
				eng.SetDueDate(&due)
			}

			task, err := eng.Submit(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
			return nil
		},
	}

	// Flags (--title is conditionally required based on --from)
	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required unless --from is used)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: low, medium, high (default medium)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Status: todo, in_progress, done (default todo)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (2006-01-02 or RFC 3339)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Create tasks from a Markdown file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview tasks without creating (requires --from)")

	return cmd
}

// createTasksFromFile creates tasks from a Markdown file.
func createTasksFromFile(cmd *cobra.Command, c *app.Container, filePath string, dryRun bool) error {
	// Read file content
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	// Execute use case
	uc := c.CreateTasksFromFileUseCase()
	out, err := uc.Execute(cmd.Context(), usecase.CreateTasksFromFileInput{
		Content: string(content),
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	// Print results
	w := cmd.OutOrStdout()
	if dryRun {
		_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
		_, _ = fmt.Fprintln(w, "")
	}

	for i, task := range out.Tasks {
		if dryRun {
			_, _ = fmt.Fprintf(w, "Task %d:\n", i+1)
		} else {
			_, _ = fmt.Fprintf(w, "Created task %s:\n", task.ID)
		}
		_, _ = fmt.Fprintf(w, "  Title: %s\n", task.Title)
		_, _ = fmt.Fprintf(w, "  Priority: %s\n", task.Priority)
		_, _ = fmt.Fprintf(w, "  Status: %s\n", task.Status)
		if task.DueDate != nil {
			_, _ = fmt.Fprintf(w, "  Due: %s\n", formatDue(task.DueDate))
		}
		if task.Description != "" {
			_, _ = fmt.Fprintf(w, "  Description: %s\n", descriptionPreview(task.Description))
		}
		if i < len(out.Tasks)-1 {
			_, _ = fmt.Fprintln(w, "")
		}
	}

	if !dryRun {
		_, _ = fmt.Fprintf(w, "\nCreated %d task(s)\n", len(out.Tasks))
	}

	return nil
}

// queryFlags holds the search, filter and sort flags shared by list and export.
type queryFlags struct {
	Search   string
	Status   string
	Priority string
	Sort     string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Search, "search", "q", "", "Only tasks whose title or description contains this text")
	cmd.Flags().StringVar(&f.Status, "status", "", "Filter by status: todo, in_progress, done")
	cmd.Flags().StringVar(&f.Priority, "priority", "", "Filter by priority: low, medium, high")
	cmd.Flags().StringVar(&f.Sort, "sort", "", "Sort mode: "+sortModeNames())
}

// apply copies the flags onto the engine's query.
func (f *queryFlags) apply(eng *engine.ListEngine) error {
	if f.Search != "" {
		eng.SetSearchQuery(f.Search)
	}
	if f.Status != "" {
		s, err := domain.ParseStatus(f.Status)
		if err != nil {
			return err
		}
		eng.SetStatusFilter(&s)
	}
	if f.Priority != "" {
		p, err := domain.ParsePriority(f.Priority)
		if err != nil {
			return err
		}
		eng.SetPriorityFilter(&p)
	}
	if f.Sort != "" {
		sortBy, err := domain.ParseSortBy(f.Sort)
		if err != nil {
			return err
		}
		eng.SetSortBy(sortBy)
	}
	return nil
}

func sortModeNames() string {
	modes := domain.AllSortModes()
	names := make([]string, 0, len(modes))
	for _, m := range modes {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var flags queryFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display a list of tasks.

Output format is tab-separated with columns:
  ID, STATUS, PRIORITY, DUE, TITLE

Overdue tasks that are not done are marked with '!' after the due date.
The default order comes from [list] default_sort in the config.

Examples:
  # List every task
  taskman list

  # Search titles and descriptions
  taskman list --search docs

  # Open high priority tasks, earliest due first
  taskman list --status todo --priority high --sort due_asc

  # Machine-readable output
  taskman list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng := c.ListEngine()
			if err := flags.apply(eng); err != nil {
				return err
			}

			state, err := eng.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				tasks := state.Filtered
				if tasks == nil {
					tasks = []domain.Task{}
				}
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			if len(state.Filtered) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), emptyListText(state.Query))
				return nil
			}
			printTaskList(cmd.OutOrStdout(), state.Filtered, c.Clock.Now())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

// emptyListText explains an empty list.
func emptyListText(q domain.Query) string {
	if q.IsFiltered() {
		return "No tasks match the current search or filters."
	}
	return "No tasks yet. Create one with 'taskman new --title <title>'."
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []domain.Task, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")

	// Rows
	for _, task := range tasks {
		due := "-"
		if task.DueDate != nil {
			due = formatDue(task.DueDate)
			if task.IsOverdue(now) {
				due += " !"
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			task.Status,
			task.Priority,
			due,
			task.Title,
		)
	}
}

// formatDue prints a due date as a plain date when it falls on midnight UTC.
func formatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	d := due.UTC()
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 && d.Nanosecond() == 0 {
		return d.Format(time.DateOnly)
	}
	return d.Format("2006-01-02 15:04Z")
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveTaskID maps a full ID or a unique prefix to a task ID.
func resolveTaskID(cmd *cobra.Command, c *app.Container, ref string) (string, error) {
	return shared.ResolveTaskID(cmd.Context(), c.Store, ref)
}

// loadDetail resolves ref to a task ID and loads it into a detail engine.
func loadDetail(ctx context.Context, c *app.Container, ref string) (*engine.DetailEngine, error) {
	id, err := shared.ResolveTaskID(ctx, c.Store, ref)
	if err != nil {
		return nil, err
	}
	eng := c.DetailEngine()
	if err := eng.Load(ctx, id); err != nil {
		return nil, err
	}
	if eng.State().Phase != engine.PhaseLoaded {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return eng, nil
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

The ID may be shortened to any prefix that matches exactly one task.

Examples:
  # Show task by ID
  taskman show 0197a3c2

  # Output in JSON format
  taskman show 0197a3c2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadDetail(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			task := *eng.State().Task

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), task)
			}
			printTaskDetail(cmd.OutOrStdout(), task, c.Clock.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

// printTaskDetail prints a task in a human-readable format.
func printTaskDetail(w io.Writer, task domain.Task, now time.Time) {
	_, _ = fmt.Fprintf(w, "%s\n\n", task.Title)
	_, _ = fmt.Fprintf(w, "ID:       %s\n", task.ID)
	_, _ = fmt.Fprintf(w, "Status:   %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Priority: %s\n", task.Priority.Display())
	if task.DueDate != nil {
		due := formatDue(task.DueDate)
		if task.IsOverdue(now) {
			due += " (overdue)"
		}
		_, _ = fmt.Fprintf(w, "Due:      %s\n", due)
	}
	_, _ = fmt.Fprintf(w, "Created:  %s\n", task.CreatedAt.UTC().Format("2006-01-02 15:04Z"))
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", task.Description)
	}
}

// newEditCommand creates the edit command for modifying a task.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Status      string
		Due         string
		NoDue       bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit an existing task.

Only the given fields change; everything else is kept.

Examples:
  # Rename a task
  taskman edit 0197a3c2 --title "New title"

  # Raise the priority and set a due date
  taskman edit 0197a3c2 --priority high --due 2025-07-01

  # Remove the due date
  taskman edit 0197a3c2 --no-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("body") && !flags.Changed("priority") &&
				!flags.Changed("status") && !flags.Changed("due") && !opts.NoDue {
				return domain.ErrNoFieldsToUpdate
			}
			if opts.NoDue && flags.Changed("due") {
				return errors.New("--due and --no-due cannot be used together")
			}

			eng, err := loadDetail(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			eng.ToggleEditMode()
			edit := *eng.State().Draft
			if flags.Changed("title") {
				edit.Title = opts.Title
			}
			if flags.Changed("body") {
				edit.Description = opts.Description
			}
			if flags.Changed("priority") {
				if edit.Priority, err = domain.ParsePriority(opts.Priority); err != nil {
					return err
				}
			}
			if flags.Changed("status") {
				if edit.Status, err = domain.ParseStatus(opts.Status); err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				due, err := domain.ParseDueDate(opts.Due)
				if err != nil {
					return err
				}
				edit.DueDate = &due
			}
			if opts.NoDue {
				edit.DueDate = nil
			}

			if err := eng.Update(cmd.Context(), edit); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", eng.State().Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority: low, medium, high")
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status: todo, in_progress, done")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (2006-01-02 or RFC 3339)")
	cmd.Flags().BoolVar(&opts.NoDue, "no-due", false, "Remove the due date")

	return cmd
}

// newDoneCommand creates the done command for toggling completion.
func newDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between done and todo",
		Long: `Mark a task as done. Running it on a done task moves it back to todo.

Examples:
  taskman done 0197a3c2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleStatus(cmd, c, args[0], (*engine.ListEngine).ToggleCompletion)
		},
	}
}

// newStartCommand creates the start command for toggling in-progress.
func newStartCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Toggle a task between in progress and todo",
		Long: `Mark a task as in progress. Running it on an in-progress task moves it
back to todo; a done task is reopened as in progress.

Examples:
  taskman start 0197a3c2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleStatus(cmd, c, args[0], (*engine.ListEngine).ToggleInProgress)
		},
	}
}

type toggleFunc func(*engine.ListEngine, context.Context, string) (*domain.Task, error)

func toggleStatus(cmd *cobra.Command, c *app.Container, ref string, toggle toggleFunc) error {
	id, err := resolveTaskID(cmd, c, ref)
	if err != nil {
		return err
	}
	task, err := toggle(c.ListEngine(), cmd.Context(), id)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, task.Status.Display())
	return nil
}

// newRmCommand creates the rm command for deleting a task.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task.

Examples:
  # Delete task by ID
  taskman rm 0197a3c2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadDetail(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			if err := eng.Delete(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", eng.State().Task.ID)
			return nil
		},
	}
}

// descriptionPreview returns the first line of desc cut to 50 columns.
func descriptionPreview(desc string) string {
	first, rest, more := strings.Cut(desc, "\n")
	if runewidth.StringWidth(first) > 50 {
		first = runewidth.Truncate(first, 50, "") + "..."
	}
	if more && rest != "" {
		first += " ..."
	}
	return first
}
