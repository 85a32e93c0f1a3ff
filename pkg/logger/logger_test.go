package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		lvl           string
		format        string
		expectedError bool
		enabled       zapcore.Level
		disabled      zapcore.Level
	}{
		{
			name:     "Info level, console",
			lvl:      "info",
			format:   "console",
			enabled:  zapcore.InfoLevel,
			disabled: zapcore.DebugLevel,
		},
		{
			name:     "Warn level, json",
			lvl:      "warn",
			format:   "json",
			enabled:  zapcore.WarnLevel,
			disabled: zapcore.InfoLevel,
		},
		{
			name:     "Error level, default format",
			lvl:      "error",
			format:   "",
			enabled:  zapcore.ErrorLevel,
			disabled: zapcore.WarnLevel,
		},
		{
			name:          "Invalid log level",
			lvl:           "invalid",
			format:        "console",
			expectedError: true,
		},
		{
			name:          "Invalid format",
			lvl:           "debug",
			format:        "xml",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.lvl, tt.format)

			if tt.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, zap.L().Core().Enabled(tt.enabled))
			assert.False(t, zap.L().Core().Enabled(tt.disabled))
		})
	}
}
