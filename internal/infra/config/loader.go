// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskman/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the taskman data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskman)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome)
}

// Load returns the merged configuration.
// Settings are applied in order default <- global <- data dir.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	for _, path := range []string{l.globalPath(), domain.LocalConfigPath(l.dataDir)} {
		if path == "" {
			continue
		}
		raw, err := loadRaw(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfg.Warnings = append(cfg.Warnings, applyRaw(cfg, raw)...)
	}

	return cfg, nil
}

// LoadGlobal returns only the global configuration applied over defaults.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	path := l.globalPath()
	if path == "" {
		return nil, os.ErrNotExist
	}
	raw, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	cfg.Warnings = applyRaw(cfg, raw)
	return cfg, nil
}

func (l *Loader) globalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

// loadRaw reads a TOML file into a generic map.
func loadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// applyRaw applies the keys present in raw to cfg and returns warnings for
// unknown sections, unknown keys and invalid values.
func applyRaw(cfg *domain.Config, raw map[string]any) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warn("unknown section: %s", section)
			continue
		}

		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "type":
					if s, ok := v.(string); ok {
						cfg.Store.Type = s
					}
				case "path":
					if s, ok := v.(string); ok {
						cfg.Store.Path = s
					}
				case "poll_interval":
					d, err := parseDuration(v)
					if err != nil {
						warn("invalid value in [store]: poll_interval: %v", err)
						continue
					}
					cfg.Store.PollInterval = d
				case "redis_addr":
					if s, ok := v.(string); ok {
						cfg.Store.RedisAddr = s
					}
				case "redis_prefix":
					if s, ok := v.(string); ok {
						cfg.Store.RedisPrefix = s
					}
				case "postgres_dsn":
					if s, ok := v.(string); ok {
						cfg.Store.PostgresDSN = s
					}
				default:
					warn("unknown key in [store]: %s", k)
				}
			}
		case "list":
			for k, v := range m {
				switch k {
				case "default_sort":
					s, _ := v.(string)
					sortBy, err := domain.ParseSortBy(s)
					if err != nil {
						warn("invalid value in [list]: default_sort: %v", err)
						continue
					}
					cfg.List.DefaultSort = sortBy
				case "search_description":
					if b, ok := v.(bool); ok {
						cfg.List.SearchDescription = &b
					}
				default:
					warn("unknown key in [list]: %s", k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						cfg.Log.Level = s
					}
				default:
					warn("unknown key in [log]: %s", k)
				}
			}
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					if s, ok := v.(string); ok {
						cfg.Server.Addr = s
					}
				default:
					warn("unknown key in [server]: %s", k)
				}
			}
		default:
			warn("unknown section: %s", section)
		}
	}

	sort.Strings(warnings)
	return warnings
}

// parseDuration accepts a Go duration string ("2s") or a number of seconds.
func parseDuration(v any) (time.Duration, error) {
	switch x := v.(type) {
	case string:
		return time.ParseDuration(x)
	case int64:
		return time.Duration(x) * time.Second, nil
	case float64:
		return time.Duration(x * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
