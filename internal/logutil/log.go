package logutil

import (
	"strings"
	"sync/atomic"

	"github.com/pingcap/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// LogConfig is the log section of the config.
type LogConfig struct {
	// Log level: debug, info, warn or error.
	Level string `toml:"level" json:"level"`
	// Log format: text (console) or json.
	Format string `toml:"format" json:"format"`
}

var bgLogger atomic.Pointer[zap.Logger]

func init() {
	bgLogger.Store(zap.NewNop())
}

// BgLogger returns the process wide logger. It is a no-op logger until
// InitLogger is called.
func BgLogger() *zap.Logger {
	return bgLogger.Load()
}

// InitLogger builds a logger writing to stderr and installs it as BgLogger.
func InitLogger(cfg *LogConfig) error {
	lg, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	ReplaceLogger(lg)
	return nil
}

// ReplaceLogger installs lg as BgLogger, mainly for tests.
func ReplaceLogger(lg *zap.Logger) {
	bgLogger.Store(lg)
}

func NewLogger(cfg *LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, errors.Annotatef(err, "invalid log level %q", cfg.Level)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	switch strings.ToLower(cfg.Format) {
	case "", "text", "console":
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	case "json":
		zc.Encoding = "json"
	default:
		return nil, errors.Errorf("invalid log format %q", cfg.Format)
	}
	lg, err := zc.Build()
	return lg, errors.Trace(err)
}
