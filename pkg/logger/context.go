package logger

import (
	"context"
	"time"
)

type loggerContextKey string

const (
	ComponentKey  loggerContextKey = "component"
	ModuleKey     loggerContextKey = "module"
	OperationKey  loggerContextKey = "operation"
	RouterKey     loggerContextKey = "router"
	RouteKey      loggerContextKey = "route"
	IdentifierKey loggerContextKey = "identifier"
	RequestIDKey  loggerContextKey = "request_id"
)

// LogContext represents structured logging context carried through a
// generation run or an API request
type LogContext struct {
	Component  string                 `json:"component,omitempty"`
	Module     string                 `json:"module,omitempty"`
	Operation  string                 `json:"operation,omitempty"`
	Router     string                 `json:"router,omitempty"`
	Route      string                 `json:"route,omitempty"`
	Identifier string                 `json:"identifier,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	StartTime  time.Time              `json:"start_time,omitempty"`
	Duration   time.Duration          `json:"duration,omitempty"`
	Custom     map[string]interface{} `json:"custom,omitempty"`
}

// ToFields converts LogContext to logger Fields
func (lc LogContext) ToFields() Fields {
	fields := Fields{}

	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set("component", lc.Component)
	set("module", lc.Module)
	set("operation", lc.Operation)
	set("router", lc.Router)
	set("route", lc.Route)
	set("identifier", lc.Identifier)
	set("request_id", lc.RequestID)

	if !lc.StartTime.IsZero() {
		fields["start_time"] = lc.StartTime
	}
	if lc.Duration > 0 {
		fields["duration"] = lc.Duration
		fields["duration_ms"] = lc.Duration.Milliseconds()
	}

	for k, v := range lc.Custom {
		fields[k] = v
	}

	return fields
}

// WithContext adds logging context to Go context
func WithContext(ctx context.Context, logCtx LogContext) context.Context {
	for k, v := range logCtx.ToFields() {
		if v != nil && v != "" {
			ctx = context.WithValue(ctx, loggerContextKey(k), v)
		}
	}
	return ctx
}

// FromContext extracts logging context from Go context
func FromContext(ctx context.Context) LogContext {
	logCtx := LogContext{
		Custom: make(map[string]interface{}),
	}

	get := func(key loggerContextKey) string {
		if s, ok := ctx.Value(key).(string); ok {
			return s
		}
		return ""
	}
	logCtx.Component = get(ComponentKey)
	logCtx.Module = get(ModuleKey)
	logCtx.Operation = get(OperationKey)
	logCtx.Router = get(RouterKey)
	logCtx.Route = get(RouteKey)
	logCtx.Identifier = get(IdentifierKey)
	logCtx.RequestID = get(RequestIDKey)

	return logCtx
}

// Merge merges two LogContext objects, values from other win
func (lc LogContext) Merge(other LogContext) LogContext {
	result := lc

	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&result.Component, other.Component)
	pick(&result.Module, other.Module)
	pick(&result.Operation, other.Operation)
	pick(&result.Router, other.Router)
	pick(&result.Route, other.Route)
	pick(&result.Identifier, other.Identifier)
	pick(&result.RequestID, other.RequestID)

	if !other.StartTime.IsZero() {
		result.StartTime = other.StartTime
	}
	if other.Duration > 0 {
		result.Duration = other.Duration
	}

	if result.Custom == nil {
		result.Custom = make(map[string]interface{})
	}
	for k, v := range other.Custom {
		result.Custom[k] = v
	}

	return result
}
