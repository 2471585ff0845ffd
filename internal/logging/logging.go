// Package logging builds the charmbracelet/log logger used by the CLI and
// the store.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nhle/tudu/internal/model"
)

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// New returns a logger configured from cfg. Output goes to fallback unless
// cfg.File is set, in which case a size-rotated file is used instead. The
// returned closer releases the file and is never nil.
func New(cfg model.LogConfig, fallback io.Writer) (*log.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = fallback
	var closer io.Closer = nopCloser{}
	formatter := log.TextFormatter
	if cfg.File != "" {
		rotating, err := NewRotatingWriter(cfg)
		if err != nil {
			return nil, nil, err
		}
		out, closer = rotating, rotating
		formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: cfg.File != "",
		Prefix:          "tudu",
	})
	return logger, closer, nil
}

// NewRotatingWriter opens cfg.File through lumberjack, creating its
// directory first.
func NewRotatingWriter(cfg model.LogConfig) (*lumberjack.Logger, error) {
	if cfg.File == "" {
		return nil, fmt.Errorf("log file path must not be empty")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 3
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxFiles,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
