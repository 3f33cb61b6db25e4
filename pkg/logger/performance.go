package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OptimizedLogger gates log builders on the enabled level so disabled
// entries never collect fields.
type OptimizedLogger struct {
	logger *zap.Logger
}

func NewOptimizedLogger(l *zap.Logger) *OptimizedLogger {
	return &OptimizedLogger{logger: l.WithOptions(zap.AddCallerSkip(1))}
}

// ShouldLog reports whether an entry at level would be written.
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	return ol.logger.Core().Enabled(level)
}

var optimizedLogger *OptimizedLogger

// GetOptimizedLogger returns the builder sink, backed by GetLogger.
func GetOptimizedLogger() *OptimizedLogger {
	if optimizedLogger == nil {
		return NewOptimizedLogger(GetLogger())
	}
	return optimizedLogger
}

// ShouldLog reports whether the process logger writes entries at level.
func ShouldLog(level zapcore.Level) bool {
	return GetOptimizedLogger().ShouldLog(level)
}
