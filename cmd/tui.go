package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/podx/internal/routes"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI. The route guard picks the first view.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = routes.Root
	}
	return r.runTUI(ctx, path)
}

func (r *Runner) runTUI(ctx context.Context, path string) error {
	// Logs would corrupt the alt screen, so they go to a file while the program runs.
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := r.connect(ctx); err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Deps{
		Session:       r.flow,
		Submitter:     r.client,
		Searcher:      r.searcher,
		Dashboard:     r.client,
		AwaitCallback: r.flow.AwaitCallback,
		Logger:        shared.WithLogger(fileLogger, "component", "tui"),
	}, path)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
