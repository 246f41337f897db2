package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/imgdrop/internal/config"
	"github.com/jask/imgdrop/internal/history"
	"github.com/jask/imgdrop/internal/logging"
	"github.com/jask/imgdrop/internal/upload"
)

// env is everything a command needs, opened in startup order.
type env struct {
	cfg     config.Config
	log     *logrus.Logger
	history *history.Repo
	client  upload.Uploader

	closers []io.Closer
}

func setup(baseURL string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if s := strings.TrimRight(strings.TrimSpace(baseURL), "/"); s != "" {
		cfg.Upload.BaseURL = s
	}

	e := &env{cfg: cfg}

	l, lc, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	e.log = l
	e.closers = append(e.closers, lc)

	// Open creates the history directory the migration connection needs.
	db, err := history.Open(cfg.History.Path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	e.closers = append(e.closers, db)
	if err := history.RunMigrations(cfg.History.Path); err != nil {
		e.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	e.history = history.NewRepo(db)

	e.client = history.Recording(upload.NewClient(cfg.Upload.BaseURL), e.history, e.log)
	return e, nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
	e.closers = nil
}
