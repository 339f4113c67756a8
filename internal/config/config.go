package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

// Manager manages application configuration
type Manager struct {
	config     *types.Config
	loader     *Loader
	validator  *Validator
	logger     *logger.Logger
	configPath string
	mu         sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(logger *logger.Logger) *Manager {
	return &Manager{
		loader:    NewLoader(),
		validator: NewValidator(),
		logger:    logger,
	}
}

// Load reads configPath (falling back to defaults when the file does not
// exist), validates it and makes sure the data directory is writable.
func (m *Manager) Load(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithComponent("config").
		WithField("path", configPath).
		Debug("Loading configuration")

	config, err := m.loader.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := m.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if config.Storage.Type == "sqlite" {
		if err := ensureDirectory(filepath.Dir(config.Storage.SQLite.Path)); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	m.config = config
	m.configPath = configPath

	m.logger.WithComponent("config").
		WithFields(logger.Fields{
			"storage": config.Storage.Type,
			"router":  config.Generate.Router,
		}).
		Debug("Configuration loaded")

	return nil
}

// Get returns a copy of the current configuration
func (m *Manager) Get() *types.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return nil
	}

	configCopy := *m.config
	return &configCopy
}

// Validate validates a configuration file without loading it
func (m *Manager) Validate(configPath string) (*types.Config, error) {
	config, err := m.loader.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration for validation: %w", err)
	}

	return config, NewValidator().Validate(config)
}

// GetConfigPath returns the current configuration file path
func (m *Manager) GetConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// SetConfig sets the configuration directly
func (m *Manager) SetConfig(config *types.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

func ensureDirectory(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return err
	}

	testFile := filepath.Join(absPath, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("data directory is not writable: %w", err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}

// GetLoggerConfig returns logger configuration. Logs default to stderr so the
// console report on stdout stays readable.
func (m *Manager) GetLoggerConfig() logger.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return logger.DefaultConfig()
	}

	logConfig := logger.Config{
		Level:  m.config.App.LogLevel,
		Format: m.config.App.LogFormat,
		Output: "stderr",
	}

	if m.config.App.LogFile != "" {
		logConfig.Output = m.config.App.LogFile
		logConfig.File = logger.FileConfig{
			MaxSize:    m.config.App.LogFileRotation.MaxSize,
			MaxBackups: m.config.App.LogFileRotation.MaxBackups,
			MaxAge:     m.config.App.LogFileRotation.MaxAge,
			Compress:   m.config.App.LogFileRotation.Compress,
		}
	}

	return logConfig
}

// Template is the file written by `routescribe config init`
const Template = `# RouteScribe configuration
app:
  name: "routescribe"
  log_level: "info"        # debug, info, warn, error
  log_format: "text"       # json, text
  # log_file: "./data/routescribe.log"
  data_dir: "./data"
  base_url: "http://localhost:8000"

storage:
  type: "sqlite"           # sqlite, postgres
  sqlite:
    path: "./data/routescribe.db"
  postgres:
    dsn: "${DATABASE_URL}"

generate:
  output: "public/docs"
  router: "mux"            # mux, chi, gin, manifest or a registered name
  source_dir: "."
  # manifest: "routes.yaml"
  use_middlewares: false
  response_calls: true
  postman: true

capture:
  timeout: 10s
  requests_per_second: 5
  burst: 1
  headers:
    Accept: "application/json"

api:
  port: 8080
  enable_swagger: true
  enable_metrics: true

security:
  allowed_env_vars:
    - "DATABASE_URL"
    - "ROUTESCRIBE_*"
    - "*_TOKEN"
`
