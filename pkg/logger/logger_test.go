package logger

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readJSONLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_NewLogger_WithValidConfig(t *testing.T) {
	logger, err := NewLogger(Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogger_NewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(Config{Level: "chatty", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogger_GetDefaultLogger(t *testing.T) {
	logger := GetDefaultLogger()
	require.NotNil(t, logger)
	assert.Equal(t, "info", logger.GetLevel().String())
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestLogger_FileOutput_JSONFieldNames(t *testing.T) {
	tempFile := t.TempDir() + "/routescribe.log"
	logger, err := NewLogger(Config{Level: "debug", Format: "json", Output: tempFile})
	require.NoError(t, err)

	logger.WithRoute([]string{"GET"}, "/users/{id}").
		WithIdentifier("abc").
		Info("route processed")

	entries := readJSONLines(t, tempFile)
	require.Len(t, entries, 1)
	assert.Equal(t, "route processed", entries[0]["message"])
	assert.Equal(t, "/users/{id}", entries[0]["uri"])
	assert.Equal(t, "abc", entries[0]["identifier"])
	assert.Equal(t, []interface{}{"GET"}, entries[0]["methods"])
	assert.NotNil(t, entries[0]["timestamp"])
	assert.Equal(t, "info", entries[0]["level"])
}

func TestLogger_TextFormat_Readable(t *testing.T) {
	tempFile := t.TempDir() + "/routescribe.log"
	logger, err := NewLogger(Config{Level: "info", Format: "text", Output: tempFile})
	require.NoError(t, err)

	logger.WithRouter("chi").Info("simple text message")

	content, err := os.ReadFile(tempFile)
	require.NoError(t, err)
	output := string(content)
	assert.Contains(t, output, "simple text message")
	assert.Contains(t, output, "level=info")
	assert.Contains(t, output, "router=chi")
}

func TestLogger_LevelThreshold(t *testing.T) {
	tempFile := t.TempDir() + "/routescribe.log"
	logger, err := NewLogger(Config{Level: "warn", Format: "text", Output: tempFile})
	require.NoError(t, err)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	content, err := os.ReadFile(tempFile)
	require.NoError(t, err)
	output := string(content)
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestLogContext_ToFieldsAndMerge(t *testing.T) {
	base := LogContext{Component: "generator", Router: "mux"}
	merged := base.Merge(LogContext{Operation: "generate", Router: "chi", Custom: map[string]interface{}{"k": "v"}})

	fields := merged.ToFields()
	assert.Equal(t, "generator", fields["component"])
	assert.Equal(t, "generate", fields["operation"])
	assert.Equal(t, "chi", fields["router"])
	assert.Equal(t, "v", fields["k"])
	assert.NotContains(t, fields, "identifier")
}

func TestLogContext_RoundTripThroughGoContext(t *testing.T) {
	ctx := WithContext(context.Background(), LogContext{
		Component:  "api",
		Route:      "/api/docs",
		Identifier: "id-1",
		RequestID:  "req-9",
	})

	got := FromContext(ctx)
	assert.Equal(t, "api", got.Component)
	assert.Equal(t, "/api/docs", got.Route)
	assert.Equal(t, "id-1", got.Identifier)
	assert.Equal(t, "req-9", got.RequestID)
}

func TestManager_ForComponentIsCached(t *testing.T) {
	manager, err := NewManager(Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	defer manager.Close()

	a := manager.ForComponent("storage")
	b := manager.ForComponent("storage")
	assert.Same(t, a, b)
	assert.NotSame(t, a, manager.ForModule("storage", "migrations"))
}

func TestManager_OperationSuccessAndFail(t *testing.T) {
	tempFile := t.TempDir() + "/routescribe.log"
	manager, err := NewManager(Config{Level: "debug", Format: "json", Output: tempFile})
	require.NoError(t, err)
	defer manager.Close()

	op := manager.StartOperation(context.Background(), "generator", "run", "generate").WithRouter("gin")
	op.Success("done", Fields{"processed": 3})
	op.Fail("broken", errors.New("boom"))

	entries := readJSONLines(t, tempFile)
	require.Len(t, entries, 3)
	assert.Equal(t, "Operation started", entries[0]["message"])
	assert.Equal(t, "done", entries[1]["message"])
	assert.Equal(t, true, entries[1]["success"])
	assert.Equal(t, float64(3), entries[1]["processed"])
	assert.Equal(t, "gin", entries[1]["router"])
	assert.Equal(t, "boom", entries[2]["error"])
	assert.Equal(t, false, entries[2]["success"])

	assert.Equal(t, "gin", FromContext(op.GetContext()).Router)
}

func TestManager_LogStatsAndRotate(t *testing.T) {
	tempFile := t.TempDir() + "/routescribe.log"
	manager, err := NewManager(Config{
		Level:  "info",
		Format: "text",
		Output: tempFile,
		File:   FileConfig{MaxSize: 1, MaxBackups: 2, MaxAge: 1},
	})
	require.NoError(t, err)
	defer manager.Close()

	manager.GetRootLogger().Info("hello")

	stats, err := manager.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxSize)
	assert.Greater(t, stats.CurrentSize, int64(0))
	assert.Contains(t, stats.String(), "MaxBackups: 2")
	assert.NoError(t, manager.RotateLog())
}

func TestManager_StatsUnavailableForStreams(t *testing.T) {
	manager, err := NewManager(Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	_, err = manager.GetLogStats()
	assert.Error(t, err)
	assert.Error(t, manager.RotateLog())
}

func TestLogStats_FormatSize(t *testing.T) {
	stats := &LogStats{}
	assert.Equal(t, "512 B", stats.FormatSize(512))
	assert.Equal(t, "1.5 KB", stats.FormatSize(1536))
	assert.Equal(t, "2.0 MB", stats.FormatSize(2*1024*1024))
}

func TestSlowOperationHook(t *testing.T) {
	tempFile := t.TempDir() + "/routescribe.log"
	manager, err := NewManager(Config{Level: "info", Format: "json", Output: tempFile})
	require.NoError(t, err)
	defer manager.Close()

	manager.GetRootLogger().WithField("duration", 10*time.Second).Info("slow")
	manager.GetRootLogger().WithField("duration", time.Millisecond).Info("fast")

	entries := readJSONLines(t, tempFile)
	require.Len(t, entries, 2)
	assert.Equal(t, true, entries[0]["slow_operation"])
	assert.NotContains(t, entries[1], "slow_operation")
}

func TestBusinessLogger_RouteEvents(t *testing.T) {
	tempFile := t.TempDir() + "/routescribe.log"
	manager, err := NewManager(Config{Level: "debug", Format: "json", Output: tempFile})
	require.NoError(t, err)
	defer manager.Close()

	bl := NewBusinessLogger(manager)
	ctx := context.Background()
	bl.LogRouteSkipped(ctx, []string{"GET"}, "/internal", "hidden")
	bl.LogRouteFailed(ctx, []string{"POST"}, "/users", errors.New("no declaration"))
	bl.LogGenerationComplete(ctx, "mux", 4, 1, 1, time.Second)

	entries := readJSONLines(t, tempFile)
	require.Len(t, entries, 3)
	assert.Equal(t, "hidden", entries[0]["reason"])
	assert.Equal(t, "warning", entries[1]["level"])
	assert.Equal(t, "no declaration", entries[1]["error"])
	assert.Equal(t, float64(4), entries[2]["processed"])
	assert.Equal(t, "mux", entries[2]["router"])
}
