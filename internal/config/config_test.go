package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadFromBytes_AppliesDefaults(t *testing.T) {
	cfg, err := NewLoader().LoadFromBytes([]byte("app:\n  name: shop\n"))
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, filepath.Join("./data", "routescribe.db"), cfg.Storage.SQLite.Path)
	assert.Equal(t, "public/docs", cfg.Generate.Output)
	assert.Equal(t, "mux", cfg.Generate.Router)
	assert.True(t, cfg.Generate.ResponseCallsEnabled())
	assert.True(t, cfg.Generate.PostmanEnabled())
	assert.Equal(t, 10*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.NotEmpty(t, cfg.Security.AllowedEnvVars)
}

func TestLoader_LoadFromBytes_ExplicitFalseSurvivesDefaults(t *testing.T) {
	cfg, err := NewLoader().LoadFromBytes([]byte("generate:\n  response_calls: false\n  postman: false\n"))
	require.NoError(t, err)

	assert.False(t, cfg.Generate.ResponseCallsEnabled())
	assert.False(t, cfg.Generate.PostmanEnabled())
}

func TestLoader_EnvExpansionHonoursAllowList(t *testing.T) {
	t.Setenv("DOCS_DSN", "postgres://u@db/docs")
	t.Setenv("SECRET_PASSWORD", "hunter2")

	yaml := `
storage:
  type: postgres
  postgres:
    dsn: "${DOCS_DSN}"
capture:
  headers:
    X-Password: "${SECRET_PASSWORD}"
security:
  allowed_env_vars: ["DOCS_DSN"]
`
	cfg, err := NewLoader().LoadFromBytes([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "postgres://u@db/docs", cfg.Storage.Postgres.DSN)
	assert.Equal(t, "${SECRET_PASSWORD}", cfg.Capture.Headers["X-Password"])
}

func TestLoader_InvalidYAML(t *testing.T) {
	_, err := NewLoader().LoadFromBytes([]byte("app: [unclosed"))
	assert.Error(t, err)
}

func TestLoader_LoadWithDefaults_MissingFile(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "routescribe", cfg.App.Name)
}

func TestLoader_LoadWithDefaults_BrokenFileIsError(t *testing.T) {
	path := writeConfig(t, "app: [unclosed")
	_, err := NewLoader().LoadWithDefaults(path)
	assert.Error(t, err)
}

func TestValidator_CollectsAllErrors(t *testing.T) {
	cfg := &types.Config{
		App: types.AppConfig{
			LogLevel:  "loud",
			LogFormat: "xml",
			BaseURL:   "ftp://example.com",
		},
		Storage:  types.StorageConfig{Type: "mongo"},
		Generate: types.GenerateConfig{Router: "manifest"},
	}

	err := NewValidator().Validate(cfg)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, field := range []string{
		"app.name", "app.log_level", "app.log_format", "app.data_dir", "app.base_url",
		"storage.type", "generate.output", "generate.manifest",
		"capture.timeout", "capture.requests_per_second", "capture.burst",
		"api.port", "security.allowed_env_vars",
	} {
		assert.True(t, fields[field], "expected error for %s", field)
	}
}

func TestValidator_PostgresNeedsDSN(t *testing.T) {
	cfg, err := NewLoader().LoadFromBytes([]byte("storage:\n  type: postgres\n"))
	require.NoError(t, err)

	err = NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.postgres.dsn")
}

func TestValidator_TemplateIsValid(t *testing.T) {
	cfg, err := NewLoader().LoadFromBytes([]byte(Template))
	require.NoError(t, err)
	assert.NoError(t, NewValidator().Validate(cfg))
	assert.Equal(t, "application/json", cfg.Capture.Headers["Accept"])
}

func TestManager_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
app:
  name: shop-docs
  log_file: `+filepath.Join(dir, "logs", "app.log")+`
storage:
  sqlite:
    path: `+filepath.Join(dir, "db", "docs.db")+`
`)

	manager := NewManager(logger.GetDefaultLogger())
	require.NoError(t, manager.Load(path))

	cfg := manager.Get()
	require.NotNil(t, cfg)
	assert.Equal(t, "shop-docs", cfg.App.Name)
	assert.Equal(t, path, manager.GetConfigPath())
	assert.DirExists(t, filepath.Join(dir, "db"))

	logCfg := manager.GetLoggerConfig()
	assert.Equal(t, filepath.Join(dir, "logs", "app.log"), logCfg.Output)
	assert.Equal(t, 50, logCfg.File.MaxSize)
}

func TestManager_LoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "api:\n  port: 70000\n")

	manager := NewManager(logger.GetDefaultLogger())
	err := manager.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
	assert.Nil(t, manager.Get())
}

func TestManager_GetLoggerConfigWithoutConfig(t *testing.T) {
	manager := NewManager(logger.GetDefaultLogger())
	assert.Equal(t, logger.DefaultConfig(), manager.GetLoggerConfig())
}

func TestManager_Validate(t *testing.T) {
	manager := NewManager(logger.GetDefaultLogger())

	_, err := manager.Validate(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cfg, err := manager.Validate(writeConfig(t, Template))
	require.NoError(t, err)
	assert.Equal(t, "routescribe", cfg.App.Name)
}
