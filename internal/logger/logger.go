package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger
)

func Init(environment string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"

	var err error
	Logger, err = config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(Logger)

	return nil
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// base falls back to the global no-op logger when Init has not run,
// so library code and tests can log without setup.
func base() *zap.Logger {
	if Logger != nil {
		return Logger
	}
	return zap.L()
}

func WithRequestID(requestID string) *zap.Logger {
	return base().With(zap.String("request_id", requestID))
}

func Debug(msg string, fields ...zap.Field) {
	base().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	base().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	base().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	base().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	base().Fatal(msg, fields...)
}
