package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/RouteScribe/internal/testutils"
	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

func silentLogs(t *testing.T) *logger.Manager {
	t.Helper()
	logs, err := testutils.NewSilentLoggerManager()
	require.NoError(t, err)
	return logs
}

func configWithoutAPI() *types.Config {
	cfg := testutils.CreateTestConfig()
	cfg.API.Port = 0
	return cfg
}

func TestNewRuntimeManager(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewRuntimeManager(nil, silentLogs(t))
		assert.Error(t, err)
	})

	t.Run("components follow configuration", func(t *testing.T) {
		rm, err := NewRuntimeManager(testutils.CreateTestConfig(), silentLogs(t), WithStorage(testutils.NewMockStorage()))
		require.NoError(t, err)

		assert.Equal(t, []string{"config", "storage", "api_server"}, rm.componentOrder)
		assert.Equal(t, RuntimeStateUnknown, rm.GetStatus().State)
	})

	t.Run("no api without a port", func(t *testing.T) {
		rm, err := NewRuntimeManager(configWithoutAPI(), nil, WithStorage(testutils.NewMockStorage()))
		require.NoError(t, err)

		assert.Equal(t, []string{"config", "storage"}, rm.componentOrder)
	})

	t.Run("storage from configuration", func(t *testing.T) {
		cfg := configWithoutAPI()
		cfg.Storage.Type = "mongodb"

		_, err := NewRuntimeManager(cfg, silentLogs(t))
		assert.ErrorContains(t, err, "unsupported storage type: mongodb")
	})
}

func TestRuntimeManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewTestStorage(t)

	rm, err := NewRuntimeManager(configWithoutAPI(), silentLogs(t), WithStorage(store))
	require.NoError(t, err)

	require.NoError(t, rm.Start(ctx))
	assert.Error(t, rm.Start(ctx), "already running")

	status := rm.GetStatus()
	assert.Equal(t, RuntimeStateRunning, status.State)
	assert.Equal(t, HealthStateHealthy, status.Components["storage"].Health)
	assert.Positive(t, status.Uptime)

	health, err := rm.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, HealthStateHealthy, health.Status)
	require.Len(t, health.Checks, 2)
	assert.Equal(t, "config", health.Checks[0].Name)

	require.NoError(t, rm.Stop(ctx))
	assert.Equal(t, RuntimeStateStopped, rm.GetStatus().State)
	assert.NoError(t, rm.Stop(ctx))
}

func TestRuntimeManager_StartFailureStopsStartedComponents(t *testing.T) {
	store := testutils.NewMockStorage()
	store.ExpectedCalls = nil
	store.On("Initialize", testutils.MockAny).Return(errors.New("no such table"))

	rm, err := NewRuntimeManager(configWithoutAPI(), silentLogs(t), WithStorage(store))
	require.NoError(t, err)

	err = rm.Start(context.Background())
	assert.ErrorContains(t, err, "failed to start component storage")
	assert.Equal(t, RuntimeStateError, rm.GetStatus().State)
	assert.Equal(t, ComponentStateStopped, rm.GetStatus().Components["config"].State)
	assert.Equal(t, "no such table", rm.GetStatus().Components["storage"].LastError)
	store.AssertNotCalled(t, "Close")
}

func TestRuntimeManager_UnhealthyStorage(t *testing.T) {
	store := testutils.NewMockStorage()
	store.ExpectedCalls = nil
	store.On("HealthCheck", testutils.MockAny).Return(errors.New("connection refused"))

	rm, err := NewRuntimeManager(configWithoutAPI(), silentLogs(t), WithStorage(store))
	require.NoError(t, err)

	health, err := rm.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthStateUnhealthy, health.Status)
	assert.Equal(t, HealthStateUnhealthy, health.Components["storage"])
	assert.Equal(t, HealthStateHealthy, health.Components["config"])
}

func TestDefaultRuntimeFactory(t *testing.T) {
	factory := NewDefaultRuntimeFactory(silentLogs(t), WithStorage(testutils.NewMockStorage()))

	_, err := factory.CreateRuntime(nil)
	assert.Error(t, err)

	cfg := testutils.CreateTestConfig()
	rt, err := factory.CreateRuntime(cfg)
	require.NoError(t, err)
	assert.NotNil(t, rt)

	cfg.API.Port = 0
	_, err = factory.CreateRuntime(cfg)
	assert.ErrorContains(t, err, "api.port")

	cfg = testutils.CreateTestConfig()
	cfg.App.Name = ""
	_, err = factory.CreateRuntime(cfg)
	assert.ErrorContains(t, err, "app.name")
}
