package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/parla/internal/app"
	"github.com/abhisek/parla/internal/store"
	"github.com/spf13/cobra"
)

// runApp builds dependencies and launches the TUI. Logs go to a file in
// the data directory so they do not draw over the screen.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog := tuiLogger(cfg.LogLevel)
	defer closeLog()

	d, err := buildDeps(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Tutor:    d.tutor,
		Settings: d.cfg.Settings,
		Events:   d.store.EventRepo(),
	})
}

func tuiLogger(level slog.Level) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: level}

	dir, err := store.DataDir()
	if err == nil {
		err = os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "parla.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: cannot open log file:", err)
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }
}
