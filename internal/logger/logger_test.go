// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		l, err := New(mode, "warn")
		require.NoError(t, err, "mode %q", mode)
		assert.NotNil(t, l.SugaredLogger)
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("dev", "loud")
	assert.Error(t, err)
}

func TestLogger_KeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core).With("component", "solver")

	l.Info("request sent", "endpoint", "/solve_text")
	l.Warn("retrying", "attempt", 1)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request sent", entries[0].Message)
	assert.Equal(t, "solver", entries[0].ContextMap()["component"])
	assert.Equal(t, "/solve_text", entries[0].ContextMap()["endpoint"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestLogger_NilIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("ignored")
		l.With("k", "v").Error("ignored")
		l.Sync()
	})
}
