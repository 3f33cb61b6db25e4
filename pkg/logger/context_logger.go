package logger

import (
	"context"
	"time"

	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder collects fields for one entry and pulls request metadata
// out of the context when the level is chosen.
type ContextLogBuilder struct {
	logger    *OptimizedLogger
	ctx       context.Context
	level     zapcore.Level
	fields    []zap.Field
	message   string
	shouldLog bool
}

// WithContext starts a log builder bound to ctx.
func (ol *OptimizedLogger) WithContext(ctx context.Context) *ContextLogBuilder {
	return &ContextLogBuilder{
		logger:    ol,
		ctx:       ctx,
		level:     zapcore.InfoLevel,
		fields:    make([]zap.Field, 0, 12),
		shouldLog: true,
	}
}

func (clb *ContextLogBuilder) extractContextFields() {
	if clb.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(clb.ctx); requestID != "" {
		clb.fields = append(clb.fields, zap.String("request_id", requestID))
	}

	if correlationID := ctxutil.GetCorrelationID(clb.ctx); correlationID != "" {
		clb.fields = append(clb.fields, zap.String("correlation_id", correlationID))
	}

	if clientIP := ctxutil.GetClientIP(clb.ctx); clientIP != "" {
		clb.fields = append(clb.fields, zap.String("client_ip", clientIP))
	}

	if userID := ctxutil.GetUserID(clb.ctx); userID != 0 {
		clb.fields = append(clb.fields, zap.Int("subject_id", userID))
	}

	if login := ctxutil.GetUserLogin(clb.ctx); login != "" {
		clb.fields = append(clb.fields, zap.String("subject", login))
	}

	if method := ctxutil.GetRPCMethod(clb.ctx); method != "" {
		clb.fields = append(clb.fields, zap.String("rpc_method", method))
	}

	if module := ctxutil.GetModule(clb.ctx); module != "" {
		clb.fields = append(clb.fields, zap.String("module", module))
	}

	if function := ctxutil.GetFunction(clb.ctx); function != "" {
		clb.fields = append(clb.fields, zap.String("function", function))
	}
}

func (clb *ContextLogBuilder) at(level zapcore.Level, message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(level) {
		clb.shouldLog = false
		return clb
	}
	clb.level = level
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Info(message string) *ContextLogBuilder {
	return clb.at(zapcore.InfoLevel, message)
}

func (clb *ContextLogBuilder) Warn(message string) *ContextLogBuilder {
	return clb.at(zapcore.WarnLevel, message)
}

func (clb *ContextLogBuilder) Error(message string) *ContextLogBuilder {
	return clb.at(zapcore.ErrorLevel, message)
}

func (clb *ContextLogBuilder) Debug(message string) *ContextLogBuilder {
	return clb.at(zapcore.DebugLevel, message)
}

func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Strings(key string, values []string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Strings(key, values))
	}
	return clb
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Ints(key string, values []int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Ints(key, values))
	}
	return clb
}

func (clb *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int64(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Bool(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Duration("duration", value))
	}
	return clb
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if clb.shouldLog && err != nil {
		clb.fields = append(clb.fields, zap.Error(err))
	}
	return clb
}

func (clb *ContextLogBuilder) Any(key string, value any) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Any(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Method(method string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("method", method))
	}
	return clb
}

func (clb *ContextLogBuilder) Path(path string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("path", path))
	}
	return clb
}

func (clb *ContextLogBuilder) StatusCode(code int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int("status_code", code))
	}
	return clb
}

// Log writes the entry, also for cancelled contexts.
func (clb *ContextLogBuilder) Log() {
	if !clb.shouldLog {
		return
	}

	switch clb.level {
	case zapcore.DebugLevel:
		clb.logger.logger.Debug(clb.message, clb.fields...)
	case zapcore.InfoLevel:
		clb.logger.logger.Info(clb.message, clb.fields...)
	case zapcore.WarnLevel:
		clb.logger.logger.Warn(clb.message, clb.fields...)
	case zapcore.ErrorLevel:
		clb.logger.logger.Error(clb.message, clb.fields...)
	}
}

func WithContext(ctx context.Context) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx)
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Info(message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Warn(message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Error(message)
}

func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Debug(message)
}

// Info starts an entry without request context, for startup and background work.
func Info(message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(context.Background()).Info(message)
}

func Warn(message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(context.Background()).Warn(message)
}

func Error(message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(context.Background()).Error(message)
}
