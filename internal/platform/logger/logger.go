package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger. Every key/value pair goes through the
// redactor before it reaches zap.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a zap-backed logger for mode "production", "development" or
// "test". Test mode only emits warnings so test output stays readable.
// LOG_LEVEL overrides the level in the other modes.
func New(mode string) (*Logger, error) {
	var (
		cfg zap.Config
		lvl = zapcore.DebugLevel
	)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		lvl = zapcore.InfoLevel
	case "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		return build(cfg)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			lvl = parsed
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return build(cfg)
}

func build(cfg zap.Config) (*Logger, error) {
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: z.Sugar()}, nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(defaultRedactor().apply(keysAndValues)...)}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, defaultRedactor().apply(keysAndValues)...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, defaultRedactor().apply(keysAndValues)...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, defaultRedactor().apply(keysAndValues)...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, defaultRedactor().apply(keysAndValues)...)
}
