package logger_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/atinyakov/shortlinks/internal/logger"
)

func TestNew(t *testing.T) {
	l := logger.New()
	require.NotNil(t, l.Log)
	require.False(t, l.Log.Core().Enabled(zapcore.FatalLevel))
	require.NoError(t, l.Sync())
}

func TestInit_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			l := logger.New()
			require.NoError(t, l.Init(level))

			lvl, err := zapcore.ParseLevel(level)
			require.NoError(t, err)
			require.True(t, l.Log.Core().Enabled(lvl))
			if lvl > zapcore.DebugLevel {
				require.False(t, l.Log.Core().Enabled(lvl-1))
			}
		})
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	l := logger.New()
	require.Error(t, l.Init("verbose"))
	require.NotNil(t, l.Log)
}
