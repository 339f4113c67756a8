package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields type, used to pass to `WithFields`.
type Fields map[string]interface{}

// Entry wraps logrus.Entry to provide consistent interface
type Entry struct {
	*logrus.Entry
}

func toLogrus(fields Fields) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// WithFields adds multiple fields to log entries
func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{l.Logger.WithFields(toLogrus(fields))}
}

// WithField adds a single field to log entries
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{l.Logger.WithField(key, value)}
}

// WithComponent adds component field to log entries
func (l *Logger) WithComponent(component string) *Entry {
	return l.WithField("component", component)
}

// WithRouter adds the route source flavor (mux, chi, gin, manifest)
func (l *Logger) WithRouter(router string) *Entry {
	return l.WithField("router", router)
}

// WithRoute adds the method list and URI of a route
func (l *Logger) WithRoute(methods []string, uri string) *Entry {
	return l.WithFields(Fields{"methods": methods, "uri": uri})
}

// WithIdentifier adds the documentation record identifier
func (l *Logger) WithIdentifier(identifier string) *Entry {
	return l.WithField("identifier", identifier)
}

func (l *Logger) WithError(err error) *Entry {
	return l.WithField("error", err.Error())
}

// WithDuration adds duration field to log entries (for performance logging)
func (l *Logger) WithDuration(duration string) *Entry {
	return l.WithField("duration", duration)
}

// Entry methods for chaining additional fields
func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{e.Entry.WithField(key, value)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{e.Entry.WithFields(toLogrus(fields))}
}

func (e *Entry) WithComponent(component string) *Entry {
	return e.WithField("component", component)
}

// WithRequestID adds the HTTP request id
func (e *Entry) WithRequestID(requestID string) *Entry {
	return e.WithField("request_id", requestID)
}

func (e *Entry) WithRouter(router string) *Entry {
	return e.WithField("router", router)
}

func (e *Entry) WithRoute(methods []string, uri string) *Entry {
	return e.WithFields(Fields{"methods": methods, "uri": uri})
}

func (e *Entry) WithIdentifier(identifier string) *Entry {
	return e.WithField("identifier", identifier)
}

func (e *Entry) WithError(err error) *Entry {
	return e.WithField("error", err.Error())
}

// createFileWriter creates a file writer with rotation support
func createFileWriter(config Config) (io.Writer, error) {
	path := config.Output
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		path = absPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    config.File.MaxSize,
		MaxBackups: config.File.MaxBackups,
		MaxAge:     config.File.MaxAge,
		Compress:   config.File.Compress,
	}, nil
}

// getWriter returns the appropriate writer based on configuration
func getWriter(config Config) (io.Writer, error) {
	switch config.Output {
	case "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	default:
		return createFileWriter(config)
	}
}
