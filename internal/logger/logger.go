// Package logger wraps zap with the key/value call style used across the service.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "talentflow"

type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a JSON logger for "prod"/"production" and a console logger at
// debug level for anything else. Every entry carries the service name.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	z, err := cfg.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return nil, err
	}
	return FromZap(z), nil
}

// FromZap adapts an existing zap logger
func FromZap(z *zap.Logger) *Logger {
	return &Logger{sugar: z.Sugar()}
}

// Nop discards everything
func Nop() *Logger {
	return FromZap(zap.NewNop())
}

// Named scopes the logger to one component, e.g. "ws" or "assessments"
func (l *Logger) Named(component string) *Logger {
	return &Logger{sugar: l.sugar.Named(component)}
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) { l.sugar.Debugw(msg, keysAndValues...) }
func (l *Logger) Info(msg string, keysAndValues ...interface{})  { l.sugar.Infow(msg, keysAndValues...) }
func (l *Logger) Warn(msg string, keysAndValues ...interface{})  { l.sugar.Warnw(msg, keysAndValues...) }
func (l *Logger) Error(msg string, keysAndValues ...interface{}) { l.sugar.Errorw(msg, keysAndValues...) }
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) { l.sugar.Fatalw(msg, keysAndValues...) }

// Sync flushes buffered entries; stdout sync errors are not actionable
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
