package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/imgdrop/internal/tui"
	"github.com/jask/imgdrop/internal/upload"
)

func runInteractive(ctx context.Context, baseURL string, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e, err := setup(baseURL)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.New(ctx, e.cfg, tui.Deps{Client: e.client, History: e.history, Log: e.log})
	if len(args) == 1 {
		f, err := upload.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		app.Preselect(f)
	}

	e.log.WithField("base_url", e.cfg.Upload.BaseURL).Info("starting")
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
