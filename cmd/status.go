package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/desertthunder/podx/internal/formatter"
	"github.com/desertthunder/podx/internal/routes"
	"github.com/desertthunder/podx/internal/session"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/wizard"
	"github.com/urfave/cli/v3"
)

// Status prints the dashboard: agent status, preferences and recent episodes.
//
// A failed fetch degrades its section instead of failing the command.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if _, err := r.requireUser(ctx); err != nil {
		return err
	}

	d := dashboard.NewLoader(r.client, int(cmd.Int("limit")), r.logger).Load(ctx)
	out, err := formatter.Dashboard(d, format)
	if err != nil {
		return err
	}
	if err := r.writeBytes(out); err != nil {
		return err
	}

	if d.Degraded() {
		r.logger.Warn("some dashboard data could not be loaded")
	}
	return nil
}

// Episodes lists the most recently curated episodes.
func (r *Runner) Episodes(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.JSON
	}
	if _, err := r.requireUser(ctx); err != nil {
		return err
	}

	episodes, err := r.client.RecentEpisodes(ctx, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to fetch recent episodes: %w", err)
	}

	out, err := formatter.Episodes(episodes, format)
	if err != nil {
		return err
	}
	return r.writeBytes(out)
}

// ShowsSearch searches the show catalog the wizard uses.
func (r *Runner) ShowsSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	var search wizard.ShowSearch
	if err := search.Search(ctx, r.searcher, query); err != nil {
		return fmt.Errorf("%s: %w", wizard.SearchFailedMessage, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(search.Results, true)
	}

	if len(search.Results) == 0 {
		return r.writePlain("No shows match %q\n", query)
	}

	r.writePlainHeader(fmt.Sprintf("Shows matching %q", query))
	for i, s := range search.Results {
		r.writePlain("%d. %s\n", i+1, s.Name)
		if s.Description != "" {
			r.writePlain("   %s\n", s.Description)
		}
		r.writePlain("   id: %s\n", s.ID)
	}
	return nil
}

// Route prints where the route guard sends the current session for a path.
func (r *Runner) Route(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = routes.Root
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	state := r.session.CheckAuthStatus(ctx)
	resolved := routes.Resolve(state.Kind == session.Authenticated, state.HasPreferences(), path)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{
			"requested": path,
			"resolved":  resolved,
			"state":     state.Kind.String(),
		}, true)
	}
	return r.writePlain("%s → %s\n", path, resolved)
}
