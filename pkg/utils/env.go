package utils

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultAllowedEnvVars is used when the configuration does not list any
var DefaultAllowedEnvVars = []string{
	"DATABASE_URL",
	"ROUTESCRIBE_*",
	"*_TOKEN",
	"*_DSN",
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// EnvExpander expands ${VAR} references in configuration values. Only
// variables on the allow-list are substituted; anything else is left as is.
type EnvExpander struct {
	allowedVars []string
}

// NewEnvExpander creates a new environment variable expander
func NewEnvExpander(allowedVars []string) *EnvExpander {
	return &EnvExpander{allowedVars: allowedVars}
}

// ExpandString expands environment variables in a string
func (e *EnvExpander) ExpandString(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envRefPattern.FindStringSubmatch(match)[1]
		if !e.IsVarAllowed(name) {
			return match
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return match
	})
}

// ExpandValue walks decoded YAML (maps, slices, scalars) and expands every string
func (e *EnvExpander) ExpandValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return e.ExpandString(v), nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			expanded, err := e.ExpandValue(item)
			if err != nil {
				return nil, fmt.Errorf("failed to expand value for key %s: %w", key, err)
			}
			out[key] = expanded
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			expanded, err := e.ExpandValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return value, nil
	}
}

// IsVarAllowed checks the name against the allow-list. Patterns may carry a
// leading or trailing '*'.
func (e *EnvExpander) IsVarAllowed(name string) bool {
	for _, pattern := range e.allowedVars {
		switch {
		case pattern == name:
			return true
		case strings.HasSuffix(pattern, "*") && strings.HasPrefix(name, strings.TrimSuffix(pattern, "*")):
			return true
		case strings.HasPrefix(pattern, "*") && strings.HasSuffix(name, strings.TrimPrefix(pattern, "*")):
			return true
		}
	}
	return false
}

// GetEnvWithDefault returns environment variable value or default if not set
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
