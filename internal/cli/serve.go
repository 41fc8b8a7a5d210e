package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/httpapi"
)

// newServeCommand creates the serve command for the HTTP API.
func newServeCommand(c *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list over HTTP",
		Long: `Serve the task list as a JSON API.

Endpoints:
  GET    /tasks                      list (query: search, status, priority, sort)
  GET    /tasks/stream               server-sent events with every list change
  POST   /tasks                      create
  GET    /tasks/:id                  show
  PUT    /tasks/:id                  update the given fields
  DELETE /tasks/:id                  delete
  POST   /tasks/:id/toggle-done      toggle done <-> todo
  POST   /tasks/:id/toggle-progress  toggle in_progress <-> todo

The server stops on SIGINT or SIGTERM.`,
		Example: `  # Listen on the configured address
  taskman serve

  # Listen on localhost only
  taskman serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.AppConfig.Server.Addr
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			return httpapi.New(c, c.Logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from [server] addr)")

	return cmd
}
