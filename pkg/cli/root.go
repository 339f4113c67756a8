// Package cli is the routescribe command line. Applications register their
// router with routes.Register and call Execute from their own main package so
// that handlers can be resolved in-process.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/generator"
	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// EnvPrefix prefixes the environment variables read by the CLI, e.g.
// ROUTESCRIBE_CONFIG and ROUTESCRIBE_LOG_LEVEL
const EnvPrefix = "ROUTESCRIBE"

// DefaultConfigFile is used when neither --config nor ROUTESCRIBE_CONFIG is set
const DefaultConfigFile = "routescribe.yaml"

var rootCmd = &cobra.Command{
	Use:   "routescribe",
	Short: "RouteScribe - API documentation from your routes",
	Long: `RouteScribe walks the routes of a Go HTTP router, reads the doc comments of
their handlers, optionally calls GET endpoints for a sample response, stores
the result in the api_docs table and writes a Postman collection.

Routes are selected by name, URI prefix or middleware. Handlers marked with
@hideFromAPIDocumentation are skipped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ErrorMessage is the text printed for an error returned by Execute. A run
// without selectors gets the operator message instead of the error string.
func ErrorMessage(err error) string {
	if errors.Is(err, generator.ErrNoSelector) {
		return generator.NoSelectorMessage
	}
	return err.Error()
}

// Root returns the root command, for embedding into another cobra tree
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default is ./"+DefaultConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error), overrides the config file")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, text), overrides the config file")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// configPath resolves the configuration file from flag, environment or default
func configPath() string {
	if path := viper.GetString("config"); path != "" {
		return path
	}
	return DefaultConfigFile
}

// loadConfig loads and validates the configuration. A missing file yields
// the defaults.
func loadConfig(path string) (*config.Manager, error) {
	manager := config.NewManager(logger.GetDefaultLogger())
	if err := manager.Load(path); err != nil {
		return nil, err
	}
	return manager, nil
}

// newLoggerManager builds the logger from configuration with the global flag
// overrides applied
func newLoggerManager(manager *config.Manager) (*logger.Manager, error) {
	cfg := logger.DefaultConfig()
	if manager != nil {
		cfg = manager.GetLoggerConfig()
	}
	if level := viper.GetString("log_level"); level != "" {
		cfg.Level = level
	}
	if format := viper.GetString("log_format"); format != "" {
		cfg.Format = format
	}

	logs, err := logger.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logs, nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
