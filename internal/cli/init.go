package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long: `Initialize taskman.

This command creates the data directory with:
- config.toml: configuration template (kept if it already exists)
- tasks.json: empty task store (json store only)
- logs/: directory for the operational log

For the redis and postgres stores it checks the connection and, for
postgres, creates the tasks table. Running init again is safe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
				Config:  c.AppConfig,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Initialized taskman in %s (store: %s)\n", out.DataDir, c.AppConfig.Store.Type)
			if out.ConfigCreated {
				_, _ = fmt.Fprintf(w, "Created config file: %s\n", out.ConfigPath)
			}
			return nil
		},
	}
}
