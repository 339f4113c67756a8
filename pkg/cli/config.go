package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

const maskedValue = "***MASKED***"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Show, create and validate RouteScribe configuration files",
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show the effective configuration",
	Long:  "Display the configuration with defaults applied and environment variables resolved",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := loadConfig(configArg(args))
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), manager.Get(), showFormat, showSecrets)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Write a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configArg(args)
		if err := initConfigFile(path, initForce); err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
		printf(cmd.OutOrStdout(), "Validate it with: routescribe config validate %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file",
	Long: `Validate the syntax and content of a RouteScribe configuration file.

This command checks:
- YAML syntax
- Field values (log level, storage type, ports, base URL)
- Environment variable references against the allow-list`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := validateConfigFile(configArg(args))
		if err := printValidation(cmd.OutOrStdout(), result, validateFormat); err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("configuration validation failed")
		}
		return nil
	},
}

var (
	showFormat     string
	showSecrets    bool
	initForce      bool
	validateFormat string
)

func init() {
	configShowCmd.Flags().StringVar(&showFormat, "format", "yaml", "output format (yaml, json)")
	configShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show sensitive values (DSN, auth headers)")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration file")
	configValidateCmd.Flags().StringVar(&validateFormat, "format", "text", "output format (text, json)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// configArg prefers the positional argument over --config
func configArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return configPath()
}

func showConfig(out io.Writer, cfg *types.Config, format string, secrets bool) error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if !secrets {
		cfg = maskSensitiveData(cfg)
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		printf(out, "%s\n", data)
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		printf(out, "%s", data)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", format)
	}
	return nil
}

func maskSensitiveData(cfg *types.Config) *types.Config {
	result := *cfg

	if result.Storage.Postgres.DSN != "" {
		result.Storage.Postgres.DSN = maskedValue
	}

	if len(cfg.Capture.Headers) > 0 {
		headers := make(map[string]string, len(cfg.Capture.Headers))
		for name, value := range cfg.Capture.Headers {
			if sensitiveHeader(name) {
				value = maskedValue
			}
			headers[name] = value
		}
		result.Capture.Headers = headers
	}

	return &result
}

func sensitiveHeader(name string) bool {
	name = strings.ToLower(name)
	return name == "authorization" || name == "cookie" ||
		strings.Contains(name, "token") || strings.Contains(name, "api-key")
}

func initConfigFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// validationResult is the outcome of config validate
type validationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func validateConfigFile(path string) validationResult {
	result := validationResult{File: path, Errors: []string{}, Warnings: []string{}}

	if _, err := os.Stat(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("configuration file does not exist: %s", path))
		return result
	}

	cfg, err := config.NewManager(logger.GetDefaultLogger()).Validate(path)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, e := range verrs {
				result.Errors = append(result.Errors, e.Error())
			}
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	if cfg != nil {
		result.Warnings = configWarnings(cfg)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func configWarnings(cfg *types.Config) []string {
	warnings := []string{}

	if dir := cfg.Generate.SourceDir; dir != "" {
		if _, err := os.Stat(dir); err != nil {
			warnings = append(warnings, fmt.Sprintf("generate.source_dir %s does not exist", dir))
		}
	}
	if manifest := cfg.Generate.Manifest; manifest != "" {
		if _, err := os.Stat(manifest); err != nil {
			warnings = append(warnings, fmt.Sprintf("generate.manifest %s does not exist", manifest))
		}
	}
	if cfg.Capture.RequestsPerSecond > 50 {
		warnings = append(warnings, "capture.requests_per_second is high for remote response calls")
	}
	if cfg.Storage.SQLite.MaxConnections > 1 && cfg.Storage.Type == "sqlite" {
		warnings = append(warnings, "SQLite with more than one connection may report database is locked")
	}
	return warnings
}

func printValidation(out io.Writer, result validationResult, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		printf(out, "%s\n", data)
		return nil
	}

	if result.Valid {
		printf(out, "Configuration validation PASSED\n\n")
	} else {
		printf(out, "Configuration validation FAILED\n\n")
	}
	printf(out, "File: %s\n", result.File)
	for _, e := range result.Errors {
		printf(out, "  error: %s\n", e)
	}
	for _, w := range result.Warnings {
		printf(out, "  warning: %s\n", w)
	}
	return nil
}
