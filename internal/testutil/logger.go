// Package testutil provides shared helpers for package tests: a logger bound
// to the test, results file fixtures and shapefile fixtures.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug level logger that reports through t.Log, so
// pipeline logs surface only for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return NewTestLoggerLevel(t, slog.LevelDebug)
}

// NewTestLoggerLevel is NewTestLogger with a minimum level.
func NewTestLoggerLevel(t testing.TB, level slog.Level) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logSink{t}, &slog.HandlerOptions{Level: level}))
}

// logSink forwards each handler write as one t.Log line.
type logSink struct {
	t testing.TB
}

func (s logSink) Write(p []byte) (int, error) {
	s.t.Helper()
	s.t.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
