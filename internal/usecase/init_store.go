// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/taskman/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	Config  *domain.Config // Config rendered into the data directory config file
	DataDir string         // Path to the taskman data directory
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	DataDir       string // Path to the data directory
	ConfigPath    string // Path to the data directory config file
	ConfigCreated bool   // True if the config file was written by this run
}

// InitStore prepares the data directory and the configured task store.
type InitStore struct {
	storeInit     domain.StoreInitializer
	configManager domain.ConfigManager
	logger        domain.Logger
}

// NewInitStore creates a new InitStore use case.
// configManager may be nil to skip writing a config file.
func NewInitStore(storeInit domain.StoreInitializer, configManager domain.ConfigManager, logger domain.Logger) *InitStore {
	return &InitStore{
		storeInit:     storeInit,
		configManager: configManager,
		logger:        logger,
	}
}

// Execute creates the data directory, initializes the store and writes a
// config file if none exists. Running it again is safe.
func (uc *InitStore) Execute(ctx context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if err := os.MkdirAll(in.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if err := uc.storeInit.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize task store: %w", err)
	}

	out := &InitStoreOutput{DataDir: in.DataDir}
	if uc.configManager == nil {
		return out, nil
	}

	info := uc.configManager.GetLocalConfigInfo()
	out.ConfigPath = info.Path
	if !info.Exists {
		cfg := in.Config
		if cfg == nil {
			cfg = domain.NewDefaultConfig()
		}
		if err := uc.configManager.InitLocalConfig(cfg); err != nil {
			return nil, fmt.Errorf("write config: %w", err)
		}
		out.ConfigCreated = true
	}

	if uc.logger != nil {
		uc.logger.Info("", "init", "initialized "+in.DataDir)
	}
	return out, nil
}
