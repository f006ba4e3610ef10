package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("verbose")
	require.False(t, ok)
}

// TestContextLogger checks that named loggers travel through the context.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), New(&buf))
	ctx = WithName(ctx, "stage")
	ctx = WithKV(ctx, "arch", "arm64")

	InfoKV(ctx, "Copying bundle", "path", "/tmp/bundle")

	out := buf.String()
	require.Contains(t, out, "stage")
	require.Contains(t, out, "Copying bundle")
	require.Contains(t, out, "arm64")
	require.Contains(t, out, "/tmp/bundle")
}

// TestFromContextFallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestSetLevel filters messages below the shared level. Not parallel: the level is global.
func TestSetLevel(t *testing.T) {
	previous := Level()

	t.Cleanup(func() {
		SetLevel(previous)
	})

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), New(&buf))

	SetLevel(zapcore.WarnLevel)
	require.Equal(t, zapcore.WarnLevel, Level())

	Debug(ctx, "debug line")
	Infof(ctx, "info line %d", 1)
	Warn(ctx, "warn line")

	out := buf.String()
	require.NotContains(t, out, "debug line")
	require.NotContains(t, out, "info line")
	require.Contains(t, out, "warn line")

	SetLevel(zapcore.DebugLevel)
	Debug(ctx, "debug again")
	require.Contains(t, buf.String(), "debug again")
}
