package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. Init must run before anything logs.
var Log *zap.Logger

// Init builds the global logger: colored console output at debug level in
// development, JSON at info level otherwise.
func Init(isDevelopment bool) error {
	var cfg zap.Config
	if isDevelopment {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var err error
	Log, err = cfg.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	return err
}

// Sync flushes buffered entries; call it on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
