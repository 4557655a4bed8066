package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Development(t *testing.T) {
	log := New("development", "")
	assert.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel), "development logger should allow debug level")
}

func TestNewLogger_Production(t *testing.T) {
	log := New("production", "")
	assert.NotNil(t, log)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel), "production logger should not allow debug level")
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLogger_LevelOverride(t *testing.T) {
	log := New("development", "warn")
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	// Unknown levels keep the environment default.
	log = New("production", "chatty")
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
