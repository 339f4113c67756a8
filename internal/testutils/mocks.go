package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/johnnynv/RouteScribe/internal/storage"
)

// MockAny can be used in mock expectations for any argument
var MockAny = mock.Anything

// MockStorage is a mock implementation of storage.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Initialize(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStorage) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) GetDocByIdentifier(ctx context.Context, identifier string) (*storage.ApiDoc, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ApiDoc), args.Error(1)
}

func (m *MockStorage) GetDoc(ctx context.Context, id int64) (*storage.ApiDoc, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ApiDoc), args.Error(1)
}

func (m *MockStorage) InsertDoc(ctx context.Context, doc *storage.ApiDoc) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockStorage) UpdateDoc(ctx context.Context, doc *storage.ApiDoc) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockStorage) ListDocs(ctx context.Context) ([]*storage.ApiDoc, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.ApiDoc), args.Error(1)
}

func (m *MockStorage) GetStats(ctx context.Context) (*storage.StorageStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.StorageStats), args.Error(1)
}

// NewMockStorage creates a new mock storage with common expectations
func NewMockStorage() *MockStorage {
	mock := &MockStorage{}

	// Set up common successful operations - make them optional
	mock.On("Initialize", MockAny).Return(nil).Maybe()
	mock.On("Close").Return(nil).Maybe()
	mock.On("HealthCheck", MockAny).Return(nil).Maybe()

	return mock
}
