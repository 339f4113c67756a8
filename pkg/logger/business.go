package logger

import (
	"context"
	"time"
)

// BusinessLogger defines the domain events RouteScribe logs
type BusinessLogger interface {
	// Generation runs
	LogGenerationStart(ctx context.Context, router string, criteria map[string]interface{})
	LogGenerationComplete(ctx context.Context, router string, processed, skipped, failed int, duration time.Duration)

	// Routes
	LogRouteProcessed(ctx context.Context, methods []string, uri, identifier string)
	LogRouteSkipped(ctx context.Context, methods []string, uri, reason string)
	LogRouteFailed(ctx context.Context, methods []string, uri string, err error)

	// Persistence and export
	LogDocSaved(ctx context.Context, identifier string, id int64, inserted bool)
	LogCollectionWritten(ctx context.Context, path string, items int)

	// API
	LogAPIRequest(ctx context.Context, method, path, userAgent, remoteAddr string)
	LogAPIResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
	LogAPIError(ctx context.Context, method, path string, err error, statusCode int)

	// Components
	LogComponentStart(ctx context.Context, component, module string, config interface{})
	LogComponentStop(ctx context.Context, component, module string, duration time.Duration)
	LogComponentError(ctx context.Context, component, module string, err error)
}

type businessLoggerImpl struct {
	manager *Manager
}

// NewBusinessLogger creates a new business logger
func NewBusinessLogger(manager *Manager) BusinessLogger {
	return &businessLoggerImpl{manager: manager}
}

func (bl *businessLoggerImpl) entry(ctx context.Context, component, module, operation string) *Entry {
	return bl.manager.WithGoContext(ctx).WithFields(Fields{
		"component": component,
		"module":    module,
		"operation": operation,
	})
}

func (bl *businessLoggerImpl) LogGenerationStart(ctx context.Context, router string, criteria map[string]interface{}) {
	bl.entry(ctx, "generator", "run", "start").WithFields(Fields{
		"router":   router,
		"criteria": criteria,
	}).Info("Starting documentation generation")
}

func (bl *businessLoggerImpl) LogGenerationComplete(ctx context.Context, router string, processed, skipped, failed int, duration time.Duration) {
	bl.entry(ctx, "generator", "run", "complete").WithFields(Fields{
		"router":      router,
		"processed":   processed,
		"skipped":     skipped,
		"failed":      failed,
		"duration":    duration,
		"duration_ms": duration.Milliseconds(),
		"success":     true,
	}).Info("Documentation generation completed")
}

func (bl *businessLoggerImpl) LogRouteProcessed(ctx context.Context, methods []string, uri, identifier string) {
	bl.entry(ctx, "generator", "processor", "process_route").WithFields(Fields{
		"methods":    methods,
		"uri":        uri,
		"identifier": identifier,
	}).Debug("Route processed")
}

func (bl *businessLoggerImpl) LogRouteSkipped(ctx context.Context, methods []string, uri, reason string) {
	bl.entry(ctx, "generator", "visibility", "skip_route").WithFields(Fields{
		"methods": methods,
		"uri":     uri,
		"reason":  reason,
	}).Debug("Route skipped")
}

func (bl *businessLoggerImpl) LogRouteFailed(ctx context.Context, methods []string, uri string, err error) {
	bl.entry(ctx, "generator", "processor", "process_route").WithFields(Fields{
		"methods": methods,
		"uri":     uri,
		"success": false,
		"error":   err.Error(),
	}).Warn("Route processing failed")
}

func (bl *businessLoggerImpl) LogDocSaved(ctx context.Context, identifier string, id int64, inserted bool) {
	bl.entry(ctx, "generator", "saver", "upsert").WithFields(Fields{
		"identifier": identifier,
		"id":         id,
		"inserted":   inserted,
	}).Debug("Documentation record saved")
}

func (bl *businessLoggerImpl) LogCollectionWritten(ctx context.Context, path string, items int) {
	bl.entry(ctx, "postman", "writer", "write").WithFields(Fields{
		"path":  path,
		"items": items,
	}).Info("Postman collection written")
}

func (bl *businessLoggerImpl) LogAPIRequest(ctx context.Context, method, path, userAgent, remoteAddr string) {
	bl.entry(ctx, "api", "server", "handle_request").WithFields(Fields{
		"method":      method,
		"path":        path,
		"user_agent":  userAgent,
		"remote_addr": remoteAddr,
	}).Debug("API request received")
}

func (bl *businessLoggerImpl) LogAPIResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	bl.entry(ctx, "api", "server", "handle_request").WithFields(Fields{
		"method":      method,
		"path":        path,
		"status_code": statusCode,
		"duration":    duration,
		"duration_ms": duration.Milliseconds(),
	}).Info("API request completed")
}

func (bl *businessLoggerImpl) LogAPIError(ctx context.Context, method, path string, err error, statusCode int) {
	bl.entry(ctx, "api", "server", "handle_request").WithFields(Fields{
		"method":      method,
		"path":        path,
		"status_code": statusCode,
		"error":       err.Error(),
	}).Error("API request failed")
}

func (bl *businessLoggerImpl) LogComponentStart(ctx context.Context, component, module string, config interface{}) {
	bl.entry(ctx, component, module, "start").WithField("config", config).Info("Component starting")
}

func (bl *businessLoggerImpl) LogComponentStop(ctx context.Context, component, module string, duration time.Duration) {
	bl.entry(ctx, component, module, "stop").WithField("uptime", duration).Info("Component stopped")
}

func (bl *businessLoggerImpl) LogComponentError(ctx context.Context, component, module string, err error) {
	bl.entry(ctx, component, module, "error").WithField("error", err.Error()).Error("Component error occurred")
}
