package runtime

import (
	"context"
	"fmt"

	"github.com/johnnynv/RouteScribe/internal/api"
	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// APIComponent wraps the read API server
type APIComponent struct {
	BaseComponent
	server *api.Server
}

// NewAPIComponent creates a new API component. The runtime is exposed to the
// server for /health and /status.
func NewAPIComponent(configManager *config.Manager, storage storage.Storage, port int, runtime Runtime, parentLogger *logger.Entry) *APIComponent {
	server := api.NewServer(port, configManager, storage, parentLogger)
	server.SetRuntime(newRuntimeAPIAdapter(runtime))

	c := &APIComponent{server: server}
	c.init("api_server", parentLogger)
	return c
}

// Start implements Component.Start
func (c *APIComponent) Start(ctx context.Context) error {
	c.markStarting()

	if err := c.server.Start(ctx); err != nil {
		c.setError(err)
		return fmt.Errorf("failed to start API server: %w", err)
	}

	c.setState(ComponentStateRunning)
	c.logger.WithFields(logger.Fields{
		"operation": "start",
		"duration":  c.since(),
	}).Info("API server component started")

	return nil
}

// Stop implements Component.Stop
func (c *APIComponent) Stop(ctx context.Context) error {
	c.setState(ComponentStateStopping)

	if err := c.server.Stop(ctx); err != nil {
		c.setError(err)
		return fmt.Errorf("failed to stop API server: %w", err)
	}

	c.setState(ComponentStateStopped)
	return nil
}

// Health implements Component.Health
func (c *APIComponent) Health(ctx context.Context) error {
	return c.server.Health(ctx)
}

// GetServer returns the underlying API server
func (c *APIComponent) GetServer() *api.Server {
	return c.server
}
