package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"bookstore/internal/config"
)

func TestNew_RespectsLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = zapcore.WarnLevel

	logger, flush := New(cfg, "test")
	defer flush()

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_Production(t *testing.T) {
	cfg := config.Default()
	cfg.IsProduction = true
	cfg.LogLevel = zapcore.DebugLevel

	logger, flush := New(cfg, "")
	defer flush()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
