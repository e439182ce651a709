package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := NewLogger(tt.level)
			require.NotNil(t, log)
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("verbose")
	require.NotNil(t, log)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionFormatter(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	log := NewLogger("info")
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	t.Setenv("ENVIRONMENT", "development")
	log = NewLogger("info")
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestRunLogger(t *testing.T) {
	base := NewLogger("info")
	entry := RunLogger(base, "run-42")
	require.NotNil(t, entry)
	assert.Equal(t, "run-42", entry.Data["run_id"])
}
