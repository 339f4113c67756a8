package runtime

import (
	"fmt"

	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

// DefaultRuntimeFactory implements RuntimeFactory
type DefaultRuntimeFactory struct {
	loggerManager *logger.Manager
	options       []Option
}

// NewDefaultRuntimeFactory creates a new DefaultRuntimeFactory
func NewDefaultRuntimeFactory(loggerManager *logger.Manager, opts ...Option) *DefaultRuntimeFactory {
	return &DefaultRuntimeFactory{loggerManager: loggerManager, options: opts}
}

// CreateRuntime implements RuntimeFactory.CreateRuntime
func (f *DefaultRuntimeFactory) CreateRuntime(config *types.Config) (Runtime, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := validateRuntimeConfig(config); err != nil {
		return nil, fmt.Errorf("invalid runtime configuration: %w", err)
	}

	rm, err := NewRuntimeManager(config, f.loggerManager, f.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime manager: %w", err)
	}

	return rm, nil
}

// validateRuntimeConfig checks what serving needs beyond the generic validator
func validateRuntimeConfig(config *types.Config) error {
	if config.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if config.API.Port <= 0 || config.API.Port > 65535 {
		return fmt.Errorf("api.port must be between 1 and 65535 to serve")
	}

	switch config.Storage.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("storage.type must be sqlite or postgres, got %q", config.Storage.Type)
	}

	return nil
}
