package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRuntimeProvider is a mock implementation of RuntimeProvider
type MockRuntimeProvider struct {
	mock.Mock
}

func (m *MockRuntimeProvider) Health(ctx context.Context) RuntimeHealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(RuntimeHealthStatus)
}

func (m *MockRuntimeProvider) GetStatus() *RuntimeStatus {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*RuntimeStatus)
}

// NewMockRuntimeProvider creates a running, healthy runtime
func NewMockRuntimeProvider() *MockRuntimeProvider {
	m := &MockRuntimeProvider{}
	m.On("Health", mock.Anything).Return(RuntimeHealthStatus{
		Healthy:    true,
		Components: map[string]ComponentHealth{},
		Checks:     []HealthCheck{},
	}).Maybe()
	m.On("GetStatus").Return(&RuntimeStatus{
		State:      "running",
		StartedAt:  time.Now(),
		Uptime:     time.Minute,
		Version:    "test",
		Components: map[string]ComponentStatus{},
	}).Maybe()
	return m
}
