package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File switches from console output on Console to JSON lines appended to File.
	File string
	// Console defaults to os.Stderr.
	Console io.Writer
}

// New returns a console logger, or a JSON file logger when Options.File is set.
// The returned close function flushes and releases the log file.
func New(opts Options) (*zap.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.LevelKey = "lv"
	if level == zap.DebugLevel {
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		cfg.CallerKey = "call"
	}

	var (
		core    zapcore.Core
		closeFn = func() error { return nil }
	)
	if strings.TrimSpace(opts.File) != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(file), level)
		closeFn = file.Close
	} else {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(console), level)
	}

	var logger *zap.Logger
	if level == zap.DebugLevel {
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger = zap.New(core)
	}

	return logger, func() error {
		_ = logger.Sync()
		return closeFn()
	}, nil
}

func ParseLevel(value string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return zap.InfoLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unsupported log level %q (supported: debug, info, warn, error)", value)
	}
}
