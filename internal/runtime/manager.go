package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/johnnynv/RouteScribe/internal/api"
	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

// Option customizes a RuntimeManager
type Option func(*RuntimeManager)

// WithStorage injects the store instead of building one from configuration
func WithStorage(store storage.Storage) Option {
	return func(rm *RuntimeManager) {
		rm.storage = store
	}
}

// WithConfigManager injects the configuration manager
func WithConfigManager(manager *config.Manager) Option {
	return func(rm *RuntimeManager) {
		rm.configManager = manager
	}
}

// RuntimeManager implements the Runtime interface
type RuntimeManager struct {
	config    *types.Config
	logger    *logger.Entry
	startedAt time.Time
	state     RuntimeState
	mu        sync.RWMutex

	configManager *config.Manager
	storage       storage.Storage

	components     map[string]Component
	componentOrder []string
}

// NewRuntimeManager creates a RuntimeManager with config, storage and, when
// api.port is set, the API server components
func NewRuntimeManager(cfg *types.Config, loggerManager *logger.Manager, opts ...Option) (*RuntimeManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var runtimeLogger *logger.Entry
	if loggerManager != nil {
		runtimeLogger = loggerManager.ForModule("runtime", "manager")
	} else {
		runtimeLogger = logger.GetDefaultLogger().WithFields(logger.Fields{
			"component": "runtime",
			"module":    "manager",
		})
	}

	rm := &RuntimeManager{
		config:     cfg,
		logger:     runtimeLogger,
		state:      RuntimeStateUnknown,
		components: make(map[string]Component),
	}
	for _, opt := range opts {
		opt(rm)
	}

	if err := rm.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return rm, nil
}

func (rm *RuntimeManager) initializeComponents() error {
	if rm.configManager == nil {
		rm.configManager = config.NewManager(logger.GetDefaultLogger())
		rm.configManager.SetConfig(rm.config)
	}
	rm.addComponent(NewConfigComponent(rm.configManager, rm.logger))

	if rm.storage == nil {
		store, err := storage.NewFactory().Create(&rm.config.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		rm.storage = store
	}
	rm.addComponent(NewStorageComponent(rm.storage, rm.logger))

	if rm.config.API.Port > 0 {
		rm.addComponent(NewAPIComponent(rm.configManager, rm.storage, rm.config.API.Port, rm, rm.logger))
	}

	rm.logger.WithFields(logger.Fields{
		"operation":       "initialize_components",
		"component_order": rm.componentOrder,
	}).Debug("Initialized runtime components")

	return nil
}

func (rm *RuntimeManager) addComponent(component Component) {
	name := component.GetName()
	rm.components[name] = component
	rm.componentOrder = append(rm.componentOrder, name)
}

// Start implements Runtime.Start. On failure the components already started
// are stopped again.
func (rm *RuntimeManager) Start(ctx context.Context) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.state == RuntimeStateRunning {
		return fmt.Errorf("runtime is already running")
	}

	rm.logger.WithFields(logger.Fields{
		"operation":  "start",
		"components": len(rm.components),
	}).Info("Starting RouteScribe runtime")

	rm.state = RuntimeStateStarting
	rm.startedAt = time.Now()

	for i, name := range rm.componentOrder {
		if err := rm.components[name].Start(ctx); err != nil {
			rm.state = RuntimeStateError
			rm.logger.WithError(err).WithFields(logger.Fields{
				"operation": "start_component",
				"component": name,
			}).Error("Failed to start component")

			rm.stopComponents(ctx, rm.componentOrder[:i])
			return fmt.Errorf("failed to start component %s: %w", name, err)
		}
	}

	rm.state = RuntimeStateRunning

	rm.logger.WithFields(logger.Fields{
		"operation": "start",
		"duration":  time.Since(rm.startedAt),
	}).Info("RouteScribe runtime started")

	return nil
}

// Stop implements Runtime.Stop
func (rm *RuntimeManager) Stop(ctx context.Context) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.state == RuntimeStateStopped || rm.state == RuntimeStateUnknown {
		return nil
	}

	rm.logger.WithField("operation", "stop").Info("Stopping RouteScribe runtime")
	rm.state = RuntimeStateStopping

	rm.stopComponents(ctx, rm.componentOrder)

	rm.state = RuntimeStateStopped
	rm.logger.WithFields(logger.Fields{
		"operation": "stop",
		"uptime":    time.Since(rm.startedAt),
	}).Info("RouteScribe runtime stopped")

	return nil
}

// stopComponents stops the named components in reverse order
func (rm *RuntimeManager) stopComponents(ctx context.Context, names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		if err := rm.components[name].Stop(ctx); err != nil {
			rm.logger.WithError(err).WithFields(logger.Fields{
				"operation": "stop_component",
				"component": name,
			}).Error("Failed to stop component")
		}
	}
}

// Health implements Runtime.Health
func (rm *RuntimeManager) Health(ctx context.Context) (*HealthStatus, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	status := &HealthStatus{
		Status:     HealthStateHealthy,
		Timestamp:  time.Now(),
		Components: make(map[string]HealthState),
		Checks:     []HealthCheck{},
	}

	for _, name := range rm.componentOrder {
		start := time.Now()
		err := rm.components[name].Health(ctx)

		check := HealthCheck{
			Name:     name,
			Status:   HealthStateHealthy,
			Duration: time.Since(start),
		}
		if err != nil {
			check.Status = HealthStateUnhealthy
			check.Error = err.Error()
			status.Status = HealthStateUnhealthy
		}

		status.Components[name] = check.Status
		status.Checks = append(status.Checks, check)
	}

	return status, nil
}

// GetStatus implements Runtime.GetStatus
func (rm *RuntimeManager) GetStatus() *RuntimeStatus {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	status := &RuntimeStatus{
		State:      rm.state,
		StartedAt:  rm.startedAt,
		Version:    api.Version,
		Components: make(map[string]ComponentStatus),
	}
	if !rm.startedAt.IsZero() {
		status.Uptime = time.Since(rm.startedAt)
	}

	for name, component := range rm.components {
		status.Components[name] = component.GetStatus()
	}

	return status
}

// GetConfig returns the runtime configuration
func (rm *RuntimeManager) GetConfig() *types.Config {
	return rm.config
}

// GetStorage returns the store owned by the runtime
func (rm *RuntimeManager) GetStorage() storage.Storage {
	return rm.storage
}

// GetLogger returns the runtime logger
func (rm *RuntimeManager) GetLogger() *logger.Entry {
	return rm.logger
}
