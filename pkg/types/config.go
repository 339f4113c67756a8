package types

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	App      AppConfig      `yaml:"app" json:"app"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Generate GenerateConfig `yaml:"generate" json:"generate"`
	Capture  CaptureConfig  `yaml:"capture" json:"capture"`
	API      APIConfig      `yaml:"api" json:"api"`
	Security SecurityConfig `yaml:"security" json:"security"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name            string        `yaml:"name" json:"name"`
	LogLevel        string        `yaml:"log_level" json:"log_level"`
	LogFormat       string        `yaml:"log_format" json:"log_format"`
	LogFile         string        `yaml:"log_file" json:"log_file,omitempty"`
	LogFileRotation LogFileConfig `yaml:"log_file_rotation" json:"log_file_rotation,omitempty"`
	DataDir         string        `yaml:"data_dir" json:"data_dir"`
	// BaseURL prefixes every URI in the Postman collection and remote captures
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// LogFileConfig represents log file rotation configuration
type LogFileConfig struct {
	MaxSize    int  `yaml:"max_size" json:"max_size"`       // MB
	MaxBackups int  `yaml:"max_backups" json:"max_backups"` // number of backup files
	MaxAge     int  `yaml:"max_age" json:"max_age"`         // days
	Compress   bool `yaml:"compress" json:"compress"`       // compress rotated files
}

// StorageConfig represents storage configuration
type StorageConfig struct {
	Type     string         `yaml:"type" json:"type"` // sqlite, postgres
	SQLite   SQLiteConfig   `yaml:"sqlite" json:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres" json:"postgres"`
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path              string        `yaml:"path" json:"path"`
	MaxConnections    int           `yaml:"max_connections" json:"max_connections"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout"`
}

// PostgresConfig represents PostgreSQL-specific configuration
type PostgresConfig struct {
	DSN            string `yaml:"dsn" json:"-"`
	MaxConnections int    `yaml:"max_connections" json:"max_connections"`
}

// GenerateConfig holds defaults for the generate command. Flags win.
type GenerateConfig struct {
	Output         string `yaml:"output" json:"output"`
	Router         string `yaml:"router" json:"router"`
	SourceDir      string `yaml:"source_dir" json:"source_dir"`
	Manifest       string `yaml:"manifest" json:"manifest,omitempty"`
	UseMiddlewares bool   `yaml:"use_middlewares" json:"use_middlewares"`
	ResponseCalls  *bool  `yaml:"response_calls" json:"response_calls"`
	Postman        *bool  `yaml:"postman" json:"postman"`
}

// ResponseCallsEnabled reports whether live capture is on. Unset means on.
func (g GenerateConfig) ResponseCallsEnabled() bool {
	return g.ResponseCalls == nil || *g.ResponseCalls
}

// PostmanEnabled reports whether the collection is written. Unset means on.
func (g GenerateConfig) PostmanEnabled() bool {
	return g.Postman == nil || *g.Postman
}

// CaptureConfig configures response capture calls
type CaptureConfig struct {
	Timeout           time.Duration     `yaml:"timeout" json:"timeout"`
	RequestsPerSecond float64           `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int               `yaml:"burst" json:"burst"`
	Headers           map[string]string `yaml:"headers" json:"headers,omitempty"`
}

// APIConfig configures the read API served by `routescribe serve`
type APIConfig struct {
	Port          int  `yaml:"port" json:"port"`
	EnableSwagger bool `yaml:"enable_swagger" json:"enable_swagger"`
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
}

// SecurityConfig represents security-related configuration
type SecurityConfig struct {
	AllowedEnvVars []string `yaml:"allowed_env_vars" json:"allowed_env_vars"`
}
