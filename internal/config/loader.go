package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johnnynv/RouteScribe/pkg/types"
	"github.com/johnnynv/RouteScribe/pkg/utils"
)

// Loader handles configuration loading and processing
type Loader struct {
	envExpander *utils.EnvExpander
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFromFile loads configuration from a YAML file
func (l *Loader) LoadFromFile(filePath string) (*types.Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	return l.LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader
func (l *Loader) LoadFromReader(reader io.Reader) (*types.Config, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	return l.LoadFromBytes(content)
}

// LoadFromBytes loads configuration from byte slice
func (l *Loader) LoadFromBytes(content []byte) (*types.Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(content, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if rawConfig == nil {
		rawConfig = map[string]interface{}{}
	}

	// The allow-list has to be known before anything is expanded
	securityConfig, err := l.extractSecurityConfig(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to extract security configuration: %w", err)
	}
	l.envExpander = utils.NewEnvExpander(securityConfig.AllowedEnvVars)

	expandedConfig, err := l.envExpander.ExpandValue(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	expandedBytes, err := yaml.Marshal(expandedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expanded configuration: %w", err)
	}

	var config types.Config
	if err := yaml.Unmarshal(expandedBytes, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	l.applyDefaults(&config)

	return &config, nil
}

func (l *Loader) extractSecurityConfig(rawConfig map[string]interface{}) (*types.SecurityConfig, error) {
	securityConfig := &types.SecurityConfig{}

	if securityRaw, exists := rawConfig["security"]; exists {
		securityBytes, err := yaml.Marshal(securityRaw)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(securityBytes, securityConfig); err != nil {
			return nil, err
		}
	}

	if len(securityConfig.AllowedEnvVars) == 0 {
		securityConfig.AllowedEnvVars = append([]string(nil), utils.DefaultAllowedEnvVars...)
	}

	return securityConfig, nil
}

// applyDefaults applies default values to configuration
func (l *Loader) applyDefaults(config *types.Config) {
	// App defaults
	if config.App.Name == "" {
		config.App.Name = "routescribe"
	}
	if config.App.LogLevel == "" {
		config.App.LogLevel = "info"
	}
	if config.App.LogFormat == "" {
		config.App.LogFormat = "json"
	}
	if config.App.DataDir == "" {
		config.App.DataDir = "./data"
	}
	if config.App.BaseURL == "" {
		config.App.BaseURL = "http://localhost"
	}
	if config.App.LogFile != "" {
		rotation := &config.App.LogFileRotation
		if rotation.MaxSize == 0 {
			rotation.MaxSize = 50
		}
		if rotation.MaxBackups == 0 {
			rotation.MaxBackups = 3
		}
		if rotation.MaxAge == 0 {
			rotation.MaxAge = 14
		}
	}

	// Storage defaults
	if config.Storage.Type == "" {
		config.Storage.Type = "sqlite"
	}
	if config.Storage.SQLite.Path == "" {
		config.Storage.SQLite.Path = filepath.Join(config.App.DataDir, "routescribe.db")
	}
	if config.Storage.SQLite.MaxConnections == 0 {
		config.Storage.SQLite.MaxConnections = 1
	}
	if config.Storage.SQLite.ConnectionTimeout == 0 {
		config.Storage.SQLite.ConnectionTimeout = 30 * time.Second
	}
	if config.Storage.Postgres.MaxConnections == 0 {
		config.Storage.Postgres.MaxConnections = 10
	}

	// Generate defaults
	if config.Generate.Output == "" {
		config.Generate.Output = "public/docs"
	}
	if config.Generate.Router == "" {
		config.Generate.Router = "mux"
	}
	if config.Generate.SourceDir == "" {
		config.Generate.SourceDir = "."
	}

	// Capture defaults
	if config.Capture.Timeout == 0 {
		config.Capture.Timeout = 10 * time.Second
	}
	if config.Capture.RequestsPerSecond == 0 {
		config.Capture.RequestsPerSecond = 5
	}
	if config.Capture.Burst == 0 {
		config.Capture.Burst = 1
	}
	if config.Capture.Headers == nil {
		config.Capture.Headers = make(map[string]string)
	}

	// API defaults
	if config.API.Port == 0 {
		config.API.Port = 8080
	}

	// Security defaults
	if len(config.Security.AllowedEnvVars) == 0 {
		config.Security.AllowedEnvVars = append([]string(nil), utils.DefaultAllowedEnvVars...)
	}
}

// LoadWithDefaults loads the file when it exists and falls back to defaults
// when it does not. A file that exists but cannot be parsed is an error.
func (l *Loader) LoadWithDefaults(filePath string) (*types.Config, error) {
	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			return l.LoadFromFile(filePath)
		}
	}

	defaultConfig := &types.Config{}
	l.applyDefaults(defaultConfig)

	return defaultConfig, nil
}

// Validate validates loaded configuration
func (l *Loader) Validate(config *types.Config) error {
	return NewValidator().Validate(config)
}
