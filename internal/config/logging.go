package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// NewLogger writes text to out and, when a log file is configured, JSON to
// that file as well. The returned func closes the file.
func NewLogger(out io.Writer, cfg Logging) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	textHandler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})

	if cfg.File == "" {
		return slog.New(textHandler), func() error { return nil }, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewFanoutLogger(textHandler, file, level), file.Close, nil
}

func NewFanoutLogger(primary slog.Handler, file io.Writer, level slog.Level) *slog.Logger {
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(primary, fileHandler))
}
