package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bookstore/internal/config"
)

// New builds the service logger. Production writes JSON lines to stdout;
// development uses the colored console encoder. Error level entries and above
// carry a stacktrace. The returned func flushes buffered entries.
func New(cfg *config.Config, version string) (*zap.Logger, func()) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.LevelKey = "level"
	encoderConfig.MessageKey = "msg"
	encoderConfig.CallerKey = "caller"
	encoderConfig.StacktraceKey = "stacktrace"

	var encoder zapcore.Encoder
	if cfg.IsProduction {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), cfg.LogLevel)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if version != "" {
		logger = logger.With(zap.String("version", version))
	}

	flush := func() {
		// Sync on a terminal stdout returns EINVAL/ENOTTY on some platforms.
		if err := logger.Sync(); err != nil && cfg.IsProduction {
			log.Println("error during flushing buffered log entries:", err)
		}
	}
	return logger, flush
}
