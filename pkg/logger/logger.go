package logger

import (
	"os"
	"path/filepath"

	"github.com/rhq-project/rhq-coregui/config"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// InitLogger builds the process logger: JSON to stdout/stderr plus rotated
// info, error and debug files under cfg.Log.Path.
func InitLogger(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.Log.Path, 0755); err != nil {
		return err
	}

	zapLevel := levelFor(cfg)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	infoWriter := rotating(cfg, "info.log")
	errorWriter := rotating(cfg, "error.log")
	debugWriter := rotating(cfg, "debug.log")

	infoCore := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(infoWriter, zapcore.AddSync(os.Stdout)),
		zapLevel,
	)

	errorCore := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(errorWriter, zapcore.AddSync(os.Stderr)),
		zapcore.ErrorLevel,
	)

	debugCore := zapcore.NewCore(
		encoder,
		debugWriter,
		zapcore.DebugLevel,
	)

	cores := []zapcore.Core{infoCore, errorCore}
	if zapLevel == zapcore.DebugLevel {
		cores = append(cores, debugCore)
	}

	SetLogger(zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", cfg.App.Name)))
	return nil
}

func levelFor(cfg *config.Config) zapcore.Level {
	if cfg.Log.Level != "" {
		if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			return level
		}
	}
	if cfg.App.Environment == constants.EnvProduction {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

func rotating(cfg *config.Config, name string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.Log.Path, name),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxAge:     cfg.Log.MaxAgeDays,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
		LocalTime:  true,
	})
}

// SetLogger replaces the process logger and the context log builder's sink.
func SetLogger(l *zap.Logger) {
	Logger = l
	Sugar = l.Sugar()
	optimizedLogger = NewOptimizedLogger(l)
}

// GetLogger returns the structured logger, a no-op logger before InitLogger.
func GetLogger() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// Sync syncs all logs (call this before application exits)
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogPanic logs a recovered panic with its stack.
func LogPanic(recovered any, fields ...zap.Field) {
	GetLogger().Error("Panic recovered", append([]zap.Field{
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	}, fields...)...)
}
