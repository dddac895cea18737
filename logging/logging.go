// Package logging wraps zap's SugaredLogger behind a narrow interface so the
// rest of nomad depends on a couple of methods rather than on zap directly.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface consumed throughout nomad. It mirrors the
// subset of go.viam.com/rdk/logging's Logger; the driver and the evaluator
// pools are the callers.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	// Sublogger returns a child logger whose name is appended to this
	// logger's, dot-separated, matching zap's SugaredLogger.Named.
	Sublogger(name string) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a production-style JSON logger with the given base name.
func New(name string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	z, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a broken sink
		// registration; fall back to a minimal logger rather than panicking
		// from a constructor.
		z = zap.NewNop()
	}
	return &zapLogger{sugar: z.Sugar().Named(name)}
}

// NewTestLogger returns a Logger that writes through t.Log, matching the
// logging.NewTestLogger(t) convention used throughout the teacher's tests.
func NewTestLogger(t testing.TB) Logger {
	t.Helper()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(&testWriter{t: t}),
		zapcore.DebugLevel,
	)
	z := zap.New(core)
	return &zapLogger{sugar: z.Sugar().Named("test")}
}

type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func (l *zapLogger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }
func (l *zapLogger) Infof(template string, args ...interface{})  { l.sugar.Infof(template, args...) }
func (l *zapLogger) Warnf(template string, args ...interface{})  { l.sugar.Warnf(template, args...) }
func (l *zapLogger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }

func (l *zapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Sublogger(name string) Logger {
	return &zapLogger{sugar: l.sugar.Named(name)}
}
