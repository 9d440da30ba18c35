package logger

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log    atomic.Pointer[zap.Logger]
	initMu sync.Mutex
)

// Init initializes the zap logger for the given environment. LOG_LEVEL, when
// set, overrides the default level of the chosen profile.
func Init(env string) {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.LevelKey = "level"
		cfg.EncoderConfig.CallerKey = "caller"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if lvl := strings.TrimSpace(os.Getenv("LOG_LEVEL")); lvl != "" {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	built, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
	log.Store(built.With(zap.String("service", "storefront")))
}

// L returns the global logger, initializing it from APP_ENV on first use.
// Safe for concurrent use.
func L() *zap.Logger {
	if l := log.Load(); l != nil {
		return l
	}

	initMu.Lock()
	defer initMu.Unlock()
	if l := log.Load(); l != nil {
		return l
	}
	Init(os.Getenv("APP_ENV"))
	return log.Load()
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := log.Swap(l)
	return func() { log.Store(prev) }
}

// Sync flushes logs.
func Sync() {
	if l := log.Load(); l != nil {
		_ = l.Sync()
	}
}
