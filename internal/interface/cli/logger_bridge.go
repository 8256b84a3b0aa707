package cli

import (
	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/kindred/internal/app"
)

// loggerBridge adapts a zap logger to the app.Logger interface
type loggerBridge struct {
	sugar *zap.SugaredLogger
}

func (b *loggerBridge) Debug(format string, args ...interface{}) {
	b.sugar.Debugf(format, args...)
}

func (b *loggerBridge) Info(format string, args ...interface{}) {
	b.sugar.Infof(format, args...)
}

func (b *loggerBridge) Warn(format string, args ...interface{}) {
	b.sugar.Warnf(format, args...)
}

func (b *loggerBridge) Error(format string, args ...interface{}) {
	b.sugar.Errorf(format, args...)
}

// InitializeLoggers sets up loggers for all layers
func InitializeLoggers(logger *zap.Logger) {
	app.SetLogger(&loggerBridge{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()})
}
