// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/engine"
	"github.com/runoshun/taskman/internal/infra/config"
	"github.com/runoshun/taskman/internal/infra/idgen"
	"github.com/runoshun/taskman/internal/infra/jsonstore"
	"github.com/runoshun/taskman/internal/infra/logging"
	"github.com/runoshun/taskman/internal/infra/memstore"
	"github.com/runoshun/taskman/internal/infra/pgstore"
	"github.com/runoshun/taskman/internal/infra/redisstore"
	"github.com/runoshun/taskman/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	DataDir         string // Path to the taskman data directory
	GlobalConfigDir string // Path to the global config directory (empty = none)
	StorePath       string // Path to tasks.json (json store only)
}

// newConfig derives the paths from the data directory and loaded settings.
func newConfig(dataDir, globalConfigDir string, appConfig *domain.Config) Config {
	storePath := appConfig.Store.Path
	if storePath == "" {
		storePath = domain.TasksStorePath(dataDir)
	}
	return Config{
		DataDir:         dataDir,
		GlobalConfigDir: globalConfigDir,
		StorePath:       storePath,
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for
// engines and use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store            domain.TaskStore
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	IDs              domain.IDGenerator
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager

	// Pointer fields
	TaskLog   *logging.Logger // Operational log under the data directory
	Logger    *slog.Logger    // Process diagnostics on stderr
	AppConfig *domain.Config
	closers   []func() error

	// Configuration
	Config Config
}

// New creates a Container for dataDir using the default global config directory.
func New(ctx context.Context, dataDir string) (*Container, error) {
	return NewWithGlobalDir(ctx, dataDir, config.DefaultGlobalConfigDir())
}

// NewWithGlobalDir creates a Container with a custom global config directory.
func NewWithGlobalDir(ctx context.Context, dataDir, globalConfigDir string) (*Container, error) {
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	configLoader := config.NewLoaderWithGlobalDir(dataDir, globalConfigDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	taskLog := logging.New(dataDir, level)

	cfg := newConfig(dataDir, globalConfigDir, appConfig)

	store, storeInit, closeStore, err := openStore(ctx, appConfig, cfg, taskLog)
	if err != nil {
		_ = taskLog.Close()
		return nil, err
	}
	logger.Debug("store opened", "type", appConfig.Store.Type, "data_dir", dataDir)

	return &Container{
		Store:            store,
		StoreInitializer: storeInit,
		Clock:            domain.RealClock{},
		IDs:              idgen.UUIDv7{},
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManagerWithGlobalDir(dataDir, globalConfigDir),
		TaskLog:          taskLog,
		Logger:           logger,
		AppConfig:        appConfig,
		closers:          []func() error{closeStore, taskLog.Close},
		Config:           cfg,
	}, nil
}

// openStore creates the task store selected by the configuration.
func openStore(ctx context.Context, appConfig *domain.Config, cfg Config, log domain.Logger) (domain.TaskStore, domain.StoreInitializer, func() error, error) {
	switch appConfig.Store.Type {
	case domain.StoreMemory:
		s := memstore.New()
		return s, s, s.Close, nil
	case domain.StoreJSON:
		s := jsonstore.New(cfg.StorePath,
			jsonstore.WithPollInterval(appConfig.Store.PollInterval),
			jsonstore.WithLogger(log))
		return s, s, s.Close, nil
	case domain.StoreRedis:
		s := redisstore.Open(appConfig.Store.RedisAddr, appConfig.Store.RedisPrefix,
			redisstore.WithLogger(log))
		return s, s, s.Close, nil
	case domain.StorePostgres:
		if appConfig.Store.PostgresDSN == "" {
			return nil, nil, nil, fmt.Errorf("store type %q requires store.postgres_dsn", domain.StorePostgres)
		}
		s, err := pgstore.Open(ctx, appConfig.Store.PostgresDSN, pgstore.WithLogger(log))
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, s.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownStore, appConfig.Store.Type)
	}
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// File logging is disabled.
func NewWithDeps(cfg Config, store domain.TaskStore, storeInit domain.StoreInitializer, clock domain.Clock, ids domain.IDGenerator) *Container {
	appConfig := domain.NewDefaultConfig()
	return &Container{
		Store:            store,
		StoreInitializer: storeInit,
		Clock:            clock,
		IDs:              ids,
		ConfigLoader:     config.NewLoaderWithGlobalDir(cfg.DataDir, cfg.GlobalConfigDir),
		ConfigManager:    config.NewManagerWithGlobalDir(cfg.DataDir, cfg.GlobalConfigDir),
		TaskLog:          logging.New("", slog.LevelInfo),
		Logger:           slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
		AppConfig:        appConfig,
		Config:           cfg,
	}
}

// Close releases the store and the log file.
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

// Engine factory methods

// ListEngine returns a list engine starting from the configured query.
func (c *Container) ListEngine(opts ...engine.ListOption) *engine.ListEngine {
	opts = append([]engine.ListOption{engine.WithQuery(c.AppConfig.List.InitialQuery())}, opts...)
	return engine.NewListEngine(c.Store, c.TaskLog, opts...)
}

// DetailEngine returns a new detail engine.
func (c *Container) DetailEngine() *engine.DetailEngine {
	return engine.NewDetailEngine(c.Store, c.TaskLog)
}

// CreateEngine returns a new creation engine.
func (c *Container) CreateEngine() *engine.CreateEngine {
	return engine.NewCreateEngine(c.Store, c.IDs, c.Clock, c.TaskLog)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.ConfigManager, c.TaskLog)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// CreateTasksFromFileUseCase returns a new CreateTasksFromFile use case.
func (c *Container) CreateTasksFromFileUseCase() *usecase.CreateTasksFromFile {
	return usecase.NewCreateTasksFromFile(c.Store, c.IDs, c.Clock, c.TaskLog)
}

// ExportTasksUseCase returns a new ExportTasks use case.
func (c *Container) ExportTasksUseCase() *usecase.ExportTasks {
	return usecase.NewExportTasks(c.Store, c.Clock)
}

// ClearTasksUseCase returns a new ClearTasks use case.
func (c *Container) ClearTasksUseCase() *usecase.ClearTasks {
	return usecase.NewClearTasks(c.Store, c.TaskLog)
}

// SeedTasksUseCase returns a new SeedTasks use case.
func (c *Container) SeedTasksUseCase() *usecase.SeedTasks {
	return usecase.NewSeedTasks(c.Store, c.IDs, c.Clock, c.TaskLog)
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Store, c.TaskLog)
}
