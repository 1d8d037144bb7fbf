package logger

import "sync"

type TestLogEntry struct {
	Severity  string
	Message   string
	Arguments []any
}

// testRecorder is the entry sink shared by a TestLogger and every logger
// derived from it with With or WithPrefix.
type testRecorder struct {
	mutex   sync.Mutex
	entries []TestLogEntry
}

func (r *testRecorder) record(level string, msg string, args ...any) {
	r.mutex.Lock()
	r.entries = append(r.entries, TestLogEntry{level, msg, args})
	r.mutex.Unlock()
}

func (r *testRecorder) logs() []TestLogEntry {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]TestLogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// TestLogger records log entries so tests can assert on them. Loggers
// derived with With share the parent's recorder, so entries logged by a
// component through a With-scoped child are visible on the handle the
// test holds. Safe for use from multiple goroutines (background
// sweepers, bus callbacks).
type TestLogger struct {
	metadata map[string]any
	rec      *testRecorder
}

var _ Logger = (*TestLogger)(nil)

func (c *TestLogger) WithPrefix(prefix string) Logger {
	return c
}

func (c *TestLogger) With(metadata map[string]any) Logger {
	kv := make(map[string]any, len(c.metadata)+len(metadata))
	for k, v := range c.metadata {
		kv[k] = v
	}
	for k, v := range metadata {
		kv[k] = v
	}
	return &TestLogger{metadata: kv, rec: c.rec}
}

// Logs returns a copy of every entry recorded through this logger and
// its With-derived children.
func (c *TestLogger) Logs() []TestLogEntry {
	return c.rec.logs()
}

func (c *TestLogger) Trace(msg string, args ...any) {
	c.rec.record("TRACE", msg, args...)
}

func (c *TestLogger) Debug(msg string, args ...any) {
	c.rec.record("DEBUG", msg, args...)
}

func (c *TestLogger) Info(msg string, args ...any) {
	c.rec.record("INFO", msg, args...)
}

func (c *TestLogger) Warn(msg string, args ...any) {
	c.rec.record("WARNING", msg, args...)
}

func (c *TestLogger) Error(msg string, args ...any) {
	c.rec.record("ERROR", msg, args...)
}

// NewTestLogger returns a new Logger instance useful for testing
func NewTestLogger() *TestLogger {
	return &TestLogger{rec: &testRecorder{}}
}
