// Package ui starts the terminal interface with its own log file.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/store"
	teaui "tableflip.dev/daybook/pkg/tui/app"
)

// ErrNoTerminal is returned when stdin or stdout is not a terminal.
var ErrNoTerminal = errors.New("ui: a terminal is required")

type UI struct {
	Config store.Config
}

func (u *UI) Do(ctx context.Context) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stdin.Fd()) {
		return ErrNoTerminal
	}
	cfg := u.Config
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return err
		}
	}

	logger, closeLog, err := OpenLog(cfg.LogFile(), cfg.LogLevel())
	if err != nil {
		return err
	}
	defer closeLog()
	ctx = pslog.ContextWithLogger(ctx, logger)

	p, err := store.LoadWithLogger(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("ui start", "path", cfg.BasePath())
	err = teaui.Run(ctx, teaui.Deps{Config: cfg, Persistence: p, Logger: logger})
	logger.Info("ui stop", "err", err)
	return err
}

// OpenLog appends structured logs to path so they stay off the screen.
func OpenLog(path, level string) (pslog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("ui: log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("ui: open log: %w", err)
	}
	logger := pslog.NewWithOptions(f, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: ParseLevel(level),
	})
	return logger, func() { _ = f.Close() }, nil
}

// ParseLevel maps a config value to a level, defaulting to info.
func ParseLevel(v string) pslog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "trace":
		return pslog.TraceLevel
	case "debug":
		return pslog.DebugLevel
	case "warn", "warning":
		return pslog.WarnLevel
	case "error":
		return pslog.ErrorLevel
	default:
		return pslog.InfoLevel
	}
}
