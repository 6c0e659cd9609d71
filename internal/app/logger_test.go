package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	prod := NewLogger("production", "")
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))

	dev := NewLogger("development", "")
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	quiet := NewLogger("development", "warn")
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel))

	fallback := NewLogger("production", "loud")
	assert.True(t, fallback.Core().Enabled(zapcore.InfoLevel))
}
