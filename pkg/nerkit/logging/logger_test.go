package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestFieldsReachZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core)).Named("engine").With(String("doc", "d1"))

	log.Info("analyzer done", Int("referents", 3), Bool("ok", true), Err(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "engine", e.LoggerName)
	assert.Equal(t, "analyzer done", e.Message)
	ctx := e.ContextMap()
	assert.Equal(t, "d1", ctx["doc"])
	assert.Equal(t, int64(3), ctx["referents"])
	assert.Equal(t, true, ctx["ok"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNewLoggerConsole(t *testing.T) {
	log, err := NewLogger(Config{Level: "debug", Format: "console", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Debug("hello")
}

func TestNopDiscards(t *testing.T) {
	log := NewNop()
	log.Error("ignored", Err(nil))
	assert.NotNil(t, log.With(String("a", "b")))
}
