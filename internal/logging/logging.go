// Package logging builds the file logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	log "github.com/sirupsen/logrus"

	"github.com/jask/imgdrop/internal/config"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 28
)

// New returns a logger writing text lines to the rotated file at cfg.Path.
// The returned closer flushes and closes the file.
func New(cfg config.LogConfig) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		lvl, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}
	if cfg.Path == "" {
		return nil, nil, fmt.Errorf("log path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	l := log.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&log.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l, out, nil
}
