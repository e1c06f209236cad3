package logger

import (
	"os"

	"go.uber.org/zap"
)

// Logger is the logging surface the rest of the codebase depends on.
// Values are alternating key/value pairs, zap sugared style.
type Logger interface {
	Debug(msg string, values ...any)
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Panic(msg string, values ...any)
	Fatal(err error, values ...any)
}

var global *zapLogger

func init() {
	var cfg zap.Config
	if os.Getenv("LOG_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if _, err := New(cfg); err != nil {
		panic(err)
	}
}

// New builds the process-wide logger from a zap config. The last call wins;
// packages log through the package-level functions below.
func New(cfg zap.Config) (Logger, error) {
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer l.Sync() //nolint
	l = l.WithOptions(zap.AddCallerSkip(2))
	global = &zapLogger{sugar: l.Sugar()}
	return global, nil
}

func get() *zapLogger {
	if global == nil {
		panic("logger not initialized")
	}
	return global
}

func Debug(msg string, values ...any) { get().Debug(msg, values...) }
func Info(msg string, values ...any)  { get().Info(msg, values...) }
func Warn(msg string, values ...any)  { get().Warn(msg, values...) }
func Error(msg string, values ...any) { get().Error(msg, values...) }
func Panic(msg string, values ...any) { get().Panic(msg, values...) }
func Fatal(err error, values ...any)  { get().Fatal(err, values...) }

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Debug(msg string, values ...any) { l.sugar.Debugw(msg, values...) }
func (l *zapLogger) Info(msg string, values ...any)  { l.sugar.Infow(msg, values...) }
func (l *zapLogger) Warn(msg string, values ...any)  { l.sugar.Warnw(msg, values...) }
func (l *zapLogger) Error(msg string, values ...any) { l.sugar.Errorw(msg, values...) }
func (l *zapLogger) Panic(msg string, values ...any) { l.sugar.Panicw(msg, values...) }
func (l *zapLogger) Fatal(err error, values ...any)  { l.sugar.Fatalw(err.Error(), values...) }
