package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	for input, want := range map[string]LogLevel{
		"trace": LevelTrace,
		"DEBUG": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"bogus": LevelInfo,
	} {
		t.Setenv("CACHEKIT_LOG_LEVEL", input)
		assert.Equal(t, want, GetLevelFromEnv(), "input %q", input)
	}
}

func TestTestLoggerRecordsEntries(t *testing.T) {
	log := NewTestLogger()
	log.Info("hello %s", "world")
	log.Warn("watch out")
	log.Error("boom")

	entries := log.Logs()
	require.Len(t, entries, 3)
	assert.Equal(t, "INFO", entries[0].Severity)
	assert.Equal(t, "hello %s", entries[0].Message)
	assert.Equal(t, []any{"world"}, entries[0].Arguments)
	assert.Equal(t, "WARNING", entries[1].Severity)
	assert.Equal(t, "ERROR", entries[2].Severity)
}

func TestTestLoggerWithSharesRecorder(t *testing.T) {
	log := NewTestLogger()
	child := log.With(map[string]any{"component": "cache"})
	require.NotNil(t, child)
	child.Warn("scoped warning")
	grandchild := child.With(map[string]any{"namespace": "sessions"})
	grandchild.Error("scoped error")

	// Entries logged through With-derived children are visible on the
	// handle the test holds.
	entries := log.Logs()
	require.Len(t, entries, 2)
	assert.Equal(t, "WARNING", entries[0].Severity)
	assert.Equal(t, "scoped warning", entries[0].Message)
	assert.Equal(t, "ERROR", entries[1].Severity)
}

func TestConsoleLoggerLevels(t *testing.T) {
	// Smoke test: nothing below the configured level should panic or
	// write; output formatting is exercised at error level.
	log := NewConsoleLogger(LevelError)
	log.Trace("suppressed")
	log.Debug("suppressed")
	log.Info("suppressed")
	log.Warn("suppressed")
	log.Error("emitted %d", 1)

	withMeta := log.With(map[string]any{"component": "test"}).WithPrefix("cachekit")
	withMeta.Error("emitted with metadata")
}
