package bvh

import "go.uber.org/zap"

// Logger is the diagnostic seam the builder and optimizer log through. It
// mirrors the teacher's core.Logger: a single Printf-shaped method so any
// logging library's sugared form can satisfy it without an adapter.
type Logger interface {
	Printf(format string, args ...interface{})
}

// logf is a nil-safe helper: a tree or option set with no logger attached
// logs nothing, which is the default (see defaultBuildOptions).
func logf(l Logger, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Printf(format, args...)
}

// zapLogger adapts a *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a zap.SugaredLogger as a bvh.Logger, logging at debug
// level. Pass the Sugar() of a zap.NewDevelopment() logger for human-readable
// output during development, or a production config's sugared logger in
// services.
func NewZapLogger(s *zap.SugaredLogger) Logger {
	return &zapLogger{s: s}
}

func (z *zapLogger) Printf(format string, args ...interface{}) {
	z.s.Debugf(format, args...)
}
