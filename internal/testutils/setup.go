package testutils

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

// BaseTestSuite provides common test utilities
type BaseTestSuite struct {
	suite.Suite
	ctx           context.Context
	cancel        context.CancelFunc
	logger        *logger.Logger
	loggerManager *logger.Manager
}

// SetupSuite runs before all tests in the suite
func (s *BaseTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 30*time.Second)

	var err error
	s.loggerManager, err = NewSilentLoggerManager()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger manager: %v", err))
	}

	s.logger = s.loggerManager.GetRootLogger()
}

// TearDownSuite runs after all tests in the suite
func (s *BaseTestSuite) TearDownSuite() {
	if s.cancel != nil {
		s.cancel()
	}
}

// SetupTest runs before each test
func (s *BaseTestSuite) SetupTest() {
	// Reset context for each test
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
}

// TearDownTest runs after each test
func (s *BaseTestSuite) TearDownTest() {
	if s.cancel != nil {
		s.cancel()
	}
}

// GetTestContext returns test context
func (s *BaseTestSuite) GetTestContext() context.Context {
	return s.ctx
}

// GetTestLogger returns test logger
func (s *BaseTestSuite) GetTestLogger() *logger.Logger {
	return s.logger
}

// GetLoggerManager returns logger manager
func (s *BaseTestSuite) GetLoggerManager() *logger.Manager {
	return s.loggerManager
}

// AssertNoError is a convenience method
func (s *BaseTestSuite) AssertNoError(err error, msgAndArgs ...interface{}) {
	assert.NoError(s.T(), err, msgAndArgs...)
}

// NewSilentLoggerManager returns a logger manager that discards its output
func NewSilentLoggerManager() (*logger.Manager, error) {
	m, err := logger.NewManager(logger.Config{
		Level:  "error",
		Format: "json",
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}
	m.GetRootLogger().SetOutput(io.Discard)
	return m, nil
}

// NewTestStorage opens an initialized SQLite store in a temporary directory.
// The store is closed when the test ends.
func NewTestStorage(t testing.TB, opts ...storage.Option) *storage.SQLStore {
	t.Helper()

	store, err := storage.NewSQLiteStorage(&types.SQLiteConfig{
		Path:              filepath.Join(t.TempDir(), "routescribe.db"),
		MaxConnections:    1,
		ConnectionTimeout: 5 * time.Second,
	}, opts...)
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// CreateTestConfig creates a minimal test configuration
func CreateTestConfig() *types.Config {
	return &types.Config{
		App: types.AppConfig{
			Name:      "test-routescribe",
			LogLevel:  "error",
			LogFormat: "json",
			DataDir:   "/tmp/routescribe-test",
			BaseURL:   "http://localhost:8000",
		},
		Storage: types.StorageConfig{
			Type: "sqlite",
			SQLite: types.SQLiteConfig{
				Path:              ":memory:",
				MaxConnections:    1,
				ConnectionTimeout: 30 * time.Second,
			},
		},
		Generate: types.GenerateConfig{
			Output:    "public/docs",
			Router:    "mux",
			SourceDir: ".",
		},
		Capture: types.CaptureConfig{
			Timeout:           5 * time.Second,
			RequestsPerSecond: 5,
			Burst:             1,
		},
		API: types.APIConfig{
			Port: 8080,
		},
	}
}
