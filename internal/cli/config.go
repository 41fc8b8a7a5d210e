package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage taskman configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.
The data directory file overrides the global file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.LocalConfig} {
				if info.Path == "" {
					continue
				}
				if info.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}

			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.Effective)
		},
	}
}

// effectiveConfig mirrors the config file layout for display.
type effectiveConfig struct {
	Store struct {
		Type         string `toml:"type"`
		Path         string `toml:"path,omitempty"`
		PollInterval string `toml:"poll_interval"`
		RedisAddr    string `toml:"redis_addr"`
		RedisPrefix  string `toml:"redis_prefix"`
		PostgresDSN  string `toml:"postgres_dsn,omitempty"`
	} `toml:"store"`
	List struct {
		DefaultSort       string `toml:"default_sort"`
		SearchDescription bool   `toml:"search_description"`
	} `toml:"list"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
}

// formatEffectiveConfig formats the effective config in TOML format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}

	var out effectiveConfig
	out.Store.Type = cfg.Store.Type
	out.Store.Path = cfg.Store.Path
	out.Store.PollInterval = cfg.Store.PollInterval.String()
	out.Store.RedisAddr = cfg.Store.RedisAddr
	out.Store.RedisPrefix = cfg.Store.RedisPrefix
	out.Store.PostgresDSN = cfg.Store.PostgresDSN
	out.List.DefaultSort = string(cfg.List.DefaultSort)
	out.List.SearchDescription = cfg.List.SearchesDescription()
	out.Log.Level = cfg.Log.Level
	out.Server.Addr = cfg.Server.Addr

	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a configuration file template with default values to stdout.

It does not depend on existing configuration files and will work even if they are broken.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), domain.RenderConfigTemplate(domain.NewDefaultConfig()))
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Generate a configuration file template.

By default, creates the data directory configuration file (<data dir>/config.toml).
With --global, creates the global configuration file at ~/.config/taskman/config.toml.

Error conditions:
- Target file already exists: error`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{
				Global: global,
				Config: domain.NewDefaultConfig(),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}
