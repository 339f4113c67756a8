package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// BaseComponent provides common functionality for all components
type BaseComponent struct {
	mu        sync.RWMutex
	name      string
	logger    *logger.Entry
	state     ComponentState
	startedAt time.Time
	lastError string
}

func (c *BaseComponent) init(name string, parentLogger *logger.Entry) {
	c.name = name
	c.logger = parentLogger.WithField("component", name)
	c.state = ComponentStateUnknown
}

// GetName implements Component.GetName
func (c *BaseComponent) GetName() string {
	return c.name
}

// GetStatus implements Component.GetStatus. Health is derived from state.
func (c *BaseComponent) GetStatus() ComponentStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := ComponentStatus{
		Name:      c.name,
		State:     c.state,
		Health:    HealthStateUnknown,
		LastError: c.lastError,
	}

	if !c.startedAt.IsZero() {
		status.StartedAt = c.startedAt
		status.Uptime = time.Since(c.startedAt)
	}

	switch c.state {
	case ComponentStateRunning:
		status.Health = HealthStateHealthy
	case ComponentStateError:
		status.Health = HealthStateUnhealthy
	}

	return status
}

func (c *BaseComponent) markStarting() {
	c.mu.Lock()
	c.startedAt = time.Now()
	c.mu.Unlock()
	c.setState(ComponentStateStarting)
}

func (c *BaseComponent) setState(state ComponentState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	c.logger.WithFields(logger.Fields{
		"operation": "state_change",
		"new_state": string(state),
	}).Debug("Component state changed")
}

func (c *BaseComponent) setError(err error) {
	c.mu.Lock()
	c.lastError = err.Error()
	c.mu.Unlock()

	c.setState(ComponentStateError)
	c.logger.WithError(err).WithField("operation", "error").Error("Component error occurred")
}

func (c *BaseComponent) since() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.startedAt)
}

// ConfigComponent exposes the loaded configuration as a component so that a
// missing configuration shows up in health checks
type ConfigComponent struct {
	BaseComponent
	manager *config.Manager
}

// NewConfigComponent creates a new ConfigComponent
func NewConfigComponent(manager *config.Manager, parentLogger *logger.Entry) *ConfigComponent {
	c := &ConfigComponent{manager: manager}
	c.init("config", parentLogger)
	return c
}

// Start implements Component.Start
func (c *ConfigComponent) Start(ctx context.Context) error {
	c.markStarting()
	if err := c.Health(ctx); err != nil {
		c.setError(err)
		return err
	}
	c.setState(ComponentStateRunning)
	return nil
}

// Stop implements Component.Stop
func (c *ConfigComponent) Stop(ctx context.Context) error {
	c.setState(ComponentStateStopped)
	return nil
}

// Health implements Component.Health
func (c *ConfigComponent) Health(ctx context.Context) error {
	if c.manager == nil || c.manager.Get() == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return nil
}

// StorageComponent owns the documentation store: it runs migrations on start
// and closes the connection on stop
type StorageComponent struct {
	BaseComponent
	storage storage.Storage
}

// NewStorageComponent creates a new StorageComponent
func NewStorageComponent(storage storage.Storage, parentLogger *logger.Entry) *StorageComponent {
	c := &StorageComponent{storage: storage}
	c.init("storage", parentLogger)
	return c
}

// Start implements Component.Start
func (c *StorageComponent) Start(ctx context.Context) error {
	c.markStarting()

	c.logger.WithField("operation", "start").Info("Starting storage component")

	if err := c.storage.Initialize(ctx); err != nil {
		c.setError(err)
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := c.storage.HealthCheck(ctx); err != nil {
		c.setError(err)
		return err
	}

	c.setState(ComponentStateRunning)

	c.logger.WithFields(logger.Fields{
		"operation": "start",
		"duration":  c.since(),
	}).Info("Storage component started successfully")

	return nil
}

// Stop implements Component.Stop. A close error is logged, never returned.
func (c *StorageComponent) Stop(ctx context.Context) error {
	c.setState(ComponentStateStopping)

	if err := c.storage.Close(); err != nil {
		c.logger.WithError(err).WithField("operation", "stop").Error("Error closing storage")
	}

	c.setState(ComponentStateStopped)
	c.logger.WithField("operation", "stop").Info("Storage component stopped")
	return nil
}

// Health implements Component.Health
func (c *StorageComponent) Health(ctx context.Context) error {
	return c.storage.HealthCheck(ctx)
}
