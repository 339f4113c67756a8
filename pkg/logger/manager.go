package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager owns the root logger and hands out component scoped entries
type Manager struct {
	rootLogger     *Logger
	config         Config
	contexts       map[string]*Entry
	rotatingWriter io.WriteCloser
	mu             sync.RWMutex
}

// NewManager creates a new logger manager
func NewManager(config Config) (*Manager, error) {
	rootLogger, err := NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create root logger: %w", err)
	}

	manager := &Manager{
		rootLogger: rootLogger,
		config:     config,
		contexts:   make(map[string]*Entry),
	}

	manager.setupLogRotation()
	manager.rootLogger.AddHook(&SlowOperationHook{Threshold: 5 * time.Second})

	return manager, nil
}

// setupLogRotation keeps a handle on the lumberjack writer so that it can be
// rotated and closed. Only file outputs rotate.
func (m *Manager) setupLogRotation() {
	if lj, ok := m.rootLogger.Out.(*lumberjack.Logger); ok {
		m.rotatingWriter = lj
	}
}

// GetRootLogger returns the root logger
func (m *Manager) GetRootLogger() *Logger {
	return m.rootLogger
}

// ForComponent creates a logger for a specific component
func (m *Manager) ForComponent(component string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "component:" + component
	if entry, exists := m.contexts[key]; exists {
		return entry
	}

	entry := m.rootLogger.WithField("component", component)
	m.contexts[key] = entry
	return entry
}

// ForModule creates a logger for a component module
func (m *Manager) ForModule(component, module string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "component:" + component + ":module:" + module
	if entry, exists := m.contexts[key]; exists {
		return entry
	}

	entry := m.rootLogger.WithFields(Fields{
		"component": component,
		"module":    module,
	})
	m.contexts[key] = entry
	return entry
}

// WithContext creates a logger with full context
func (m *Manager) WithContext(logCtx LogContext) *Entry {
	return m.rootLogger.WithFields(logCtx.ToFields())
}

// WithGoContext creates a logger from Go context
func (m *Manager) WithGoContext(ctx context.Context) *Entry {
	return m.WithContext(FromContext(ctx))
}

// SlowOperationHook flags entries whose duration exceeds Threshold
type SlowOperationHook struct {
	Threshold time.Duration
}

func (h *SlowOperationHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.InfoLevel,
		logrus.WarnLevel,
		logrus.ErrorLevel,
	}
}

func (h *SlowOperationHook) Fire(entry *logrus.Entry) error {
	if d, ok := entry.Data["duration"].(time.Duration); ok && d > h.Threshold {
		entry.Data["slow_operation"] = true
	}
	return nil
}

// Operation is a timed unit of work (a generation run, a single route)
type Operation struct {
	Component string
	Module    string
	Name      string
	StartTime time.Time
	logger    *Entry
	ctx       context.Context
}

// StartOperation starts an operation and logs its beginning
func (m *Manager) StartOperation(ctx context.Context, component, module, operation string) *Operation {
	startTime := time.Now()

	logCtx := FromContext(ctx).Merge(LogContext{
		Component: component,
		Module:    module,
		Operation: operation,
		StartTime: startTime,
	})

	op := &Operation{
		Component: component,
		Module:    module,
		Name:      operation,
		StartTime: startTime,
		logger:    m.WithContext(logCtx),
		ctx:       WithContext(ctx, logCtx),
	}

	op.logger.Debug("Operation started")
	return op
}

// WithRouter adds the route source flavor to the operation
func (op *Operation) WithRouter(router string) *Operation {
	op.logger = op.logger.WithRouter(router)
	op.ctx = context.WithValue(op.ctx, RouterKey, router)
	return op
}

// WithRoute adds route context
func (op *Operation) WithRoute(methods []string, uri string) *Operation {
	op.logger = op.logger.WithRoute(methods, uri)
	return op
}

// Info logs info message
func (op *Operation) Info(message string, fields ...Fields) {
	op.logger.WithFields(mergeFields(nil, fields)).Info(message)
}

// Warn logs warning message
func (op *Operation) Warn(message string, fields ...Fields) {
	op.logger.WithFields(mergeFields(nil, fields)).Warn(message)
}

// Error logs error message
func (op *Operation) Error(message string, err error, fields ...Fields) {
	op.logger.WithFields(mergeFields(Fields{"error": err.Error()}, fields)).Error(message)
}

// Success logs successful completion with duration
func (op *Operation) Success(message string, fields ...Fields) {
	duration := time.Since(op.StartTime)
	op.logger.WithFields(mergeFields(Fields{
		"duration":    duration,
		"duration_ms": duration.Milliseconds(),
		"success":     true,
	}, fields)).Info(message)
}

// Fail logs operation failure with duration
func (op *Operation) Fail(message string, err error, fields ...Fields) {
	duration := time.Since(op.StartTime)
	op.logger.WithFields(mergeFields(Fields{
		"duration":    duration,
		"duration_ms": duration.Milliseconds(),
		"success":     false,
		"error":       err.Error(),
	}, fields)).Error(message)
}

// GetContext returns the enriched context
func (op *Operation) GetContext() context.Context {
	return op.ctx
}

// GetLogger returns the operation logger
func (op *Operation) GetLogger() *Entry {
	return op.logger
}

func mergeFields(base Fields, extra []Fields) Fields {
	out := Fields{}
	for k, v := range base {
		out[k] = v
	}
	for _, f := range extra {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

// Close closes the rotating writer, if any
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rotatingWriter != nil {
		return m.rotatingWriter.Close()
	}
	return nil
}

// RotateLog triggers a manual rotation of the log file
func (m *Manager) RotateLog() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lj, ok := m.rotatingWriter.(*lumberjack.Logger); ok {
		return lj.Rotate()
	}
	return fmt.Errorf("log rotation not available")
}

// GetLogStats reports the current log file and its rotation settings
func (m *Manager) GetLogStats() (*LogStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lj, ok := m.rotatingWriter.(*lumberjack.Logger)
	if !ok {
		return nil, fmt.Errorf("log rotation not available")
	}

	stats := &LogStats{
		CurrentFile: lj.Filename,
		MaxSize:     lj.MaxSize,
		MaxAge:      lj.MaxAge,
		MaxBackups:  lj.MaxBackups,
		Compress:    lj.Compress,
	}
	if info, err := os.Stat(lj.Filename); err == nil {
		stats.CurrentSize = info.Size()
		stats.LastModified = info.ModTime()
	}

	return stats, nil
}

// LogStats describes the active log file
type LogStats struct {
	CurrentFile  string    `json:"current_file"`
	CurrentSize  int64     `json:"current_size"`
	LastModified time.Time `json:"last_modified"`
	MaxSize      int       `json:"max_size"`
	MaxAge       int       `json:"max_age"`
	MaxBackups   int       `json:"max_backups"`
	Compress     bool      `json:"compress"`
}

// FormatSize renders a byte count in human readable units
func (ls *LogStats) FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func (ls *LogStats) String() string {
	return fmt.Sprintf(
		"File: %s, Size: %s, MaxSize: %dMB, MaxAge: %dd, MaxBackups: %d, Compress: %t",
		ls.CurrentFile,
		ls.FormatSize(ls.CurrentSize),
		ls.MaxSize,
		ls.MaxAge,
		ls.MaxBackups,
		ls.Compress,
	)
}
