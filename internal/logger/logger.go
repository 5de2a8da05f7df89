package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps the zap logger with additional functionality
type Logger struct {
	*zap.Logger
}

// Config controls the level and the optional rotating file output of a Logger.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `yaml:"level" json:"level" jsonschema:"title=Level,description=Log level (debug/info/warn/error),enum=debug,enum=info,enum=warn,enum=error"`
	// File, when set, receives a copy of every entry and is rotated by size.
	File       string `yaml:"file" json:"file" jsonschema:"title=File,description=Optional log file path"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb" jsonschema:"title=Max Size,description=Maximum size in megabytes before rotation,minimum=0"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups" jsonschema:"title=Max Backups,minimum=0"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days" jsonschema:"title=Max Age,minimum=0"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// NewLogger creates a new logger instance with production configuration
func NewLogger() (*Logger, error) {
	config := zap.NewProductionConfig()

	// Set the output to stdout
	config.OutputPaths = []string{"stdout"}

	// Set the error output to stderr
	config.ErrorOutputPaths = []string{"stderr"}

	// Set the log level
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	// Create the logger
	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewLoggerWithConfig builds a JSON logger writing to stdout and, when cfg.File
// is set, to a lumberjack-rotated file as well.
func NewLoggerWithConfig(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel

	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}

		level = parsed
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...), zap.AddCaller()),
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
