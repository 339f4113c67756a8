package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/johnnynv/RouteScribe/pkg/types"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Validator validates configuration
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration
func (v *Validator) Validate(config *types.Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateApp(&config.App)
	v.validateStorage(&config.Storage)
	v.validateGenerate(&config.Generate)
	v.validateCapture(&config.Capture)
	v.validateAPI(&config.API)
	v.validateSecurity(&config.Security)

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

func (v *Validator) validateApp(app *types.AppConfig) {
	if app.Name == "" {
		v.addError("app.name", app.Name, "application name is required")
	}

	if app.LogLevel != "" && !contains([]string{"debug", "info", "warn", "error"}, app.LogLevel) {
		v.addError("app.log_level", app.LogLevel, "invalid log level")
	}

	if app.LogFormat != "" && !contains([]string{"json", "text"}, app.LogFormat) {
		v.addError("app.log_format", app.LogFormat, "invalid log format")
	}

	if app.DataDir == "" {
		v.addError("app.data_dir", app.DataDir, "data directory is required")
	}

	if app.BaseURL != "" {
		if err := validateBaseURL(app.BaseURL); err != nil {
			v.addError("app.base_url", app.BaseURL, err.Error())
		}
	}
}

func (v *Validator) validateStorage(storage *types.StorageConfig) {
	switch storage.Type {
	case "":
		v.addError("storage.type", storage.Type, "storage type is required")
	case "sqlite":
		if storage.SQLite.Path == "" {
			v.addError("storage.sqlite.path", storage.SQLite.Path, "SQLite database path is required")
		}
		if storage.SQLite.MaxConnections <= 0 {
			v.addError("storage.sqlite.max_connections", fmt.Sprintf("%d", storage.SQLite.MaxConnections), "max connections must be positive")
		}
		if storage.SQLite.ConnectionTimeout <= 0 {
			v.addError("storage.sqlite.connection_timeout", storage.SQLite.ConnectionTimeout.String(), "connection timeout must be positive")
		}
	case "postgres":
		if storage.Postgres.DSN == "" {
			v.addError("storage.postgres.dsn", "", "PostgreSQL DSN is required")
		}
		if storage.Postgres.MaxConnections <= 0 {
			v.addError("storage.postgres.max_connections", fmt.Sprintf("%d", storage.Postgres.MaxConnections), "max connections must be positive")
		}
	default:
		v.addError("storage.type", storage.Type, "storage type must be 'sqlite' or 'postgres'")
	}
}

func (v *Validator) validateGenerate(generate *types.GenerateConfig) {
	if generate.Output == "" {
		v.addError("generate.output", generate.Output, "output directory is required")
	}
	if generate.Router == "" {
		v.addError("generate.router", generate.Router, "router is required")
	}
	if generate.Router == "manifest" && generate.Manifest == "" {
		v.addError("generate.manifest", generate.Manifest, "manifest path is required when router is 'manifest'")
	}
}

func (v *Validator) validateCapture(capture *types.CaptureConfig) {
	if capture.Timeout <= 0 {
		v.addError("capture.timeout", capture.Timeout.String(), "timeout must be positive")
	}
	if capture.RequestsPerSecond <= 0 {
		v.addError("capture.requests_per_second", fmt.Sprintf("%g", capture.RequestsPerSecond), "requests per second must be positive")
	}
	if capture.Burst <= 0 {
		v.addError("capture.burst", fmt.Sprintf("%d", capture.Burst), "burst must be positive")
	}
	for name := range capture.Headers {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " :") {
			v.addError("capture.headers", name, "invalid header name")
		}
	}
}

func (v *Validator) validateAPI(api *types.APIConfig) {
	if api.Port <= 0 || api.Port > 65535 {
		v.addError("api.port", fmt.Sprintf("%d", api.Port), "invalid port number")
	}
}

func (v *Validator) validateSecurity(security *types.SecurityConfig) {
	if len(security.AllowedEnvVars) == 0 {
		v.addError("security.allowed_env_vars", "[]", "at least one allowed environment variable is required")
	}
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

func (v *Validator) addError(field, value, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
