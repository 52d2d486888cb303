package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/podx/internal/formatter"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/routes"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/wizard"
	"github.com/urfave/cli/v3"
)

// PreferencesSet runs the wizard without the TUI, one step per flag group, and submits the result.
//
// Each step goes through the same editors and gates as the interactive wizard.
func (r *Runner) PreferencesSet(ctx context.Context, cmd *cli.Command) error {
	user, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	w := wizard.New(*user, r.client, wizard.WithLogger(shared.WithLogger(r.logger, "component", "wizard")))

	if err := r.applyTopics(w, cmd.StringSlice("topic")); err != nil {
		return err
	}
	if !w.Next() {
		return fmt.Errorf("%w: at least one --topic is required", shared.ErrMissingArgument)
	}

	if err := r.applyShows(ctx, w, cmd.StringSlice("show")); err != nil {
		return err
	}
	w.Next()

	if err := applyDuration(w, cmd); err != nil {
		return err
	}
	if !w.Next() {
		return fmt.Errorf("%w: both --min and --max are required", shared.ErrInvalidArgument)
	}

	if err := applyNotifications(w, cmd); err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		return r.writeJSON(w.Request(), true)
	}

	if err := w.Submit(ctx); err != nil {
		return err
	}
	r.session.MarkPreferencesSaved()

	r.writePlain("✓ Preferences saved\n\n")
	r.writeBytes(formatter.DraftToText(w.Draft()))
	return r.writePlainln("The agent will use these on its next run. Run 'podx status' to check in.")
}

// applyTopics selects each topic, matching popular topics by name regardless of case.
func (r *Runner) applyTopics(w *wizard.Wizard, topics []string) error {
	for _, t := range topics {
		in := wizard.TopicInput{Buffer: canonicalTopic(t)}
		err := wizard.Topics(w.Draft(), w.OnChange()).AddCustom(&in)
		switch {
		case errors.Is(err, shared.ErrInvalidInput) && strings.TrimSpace(t) != "":
			r.logger.Warn("skipping duplicate topic", "topic", t)
		case err != nil:
			return fmt.Errorf("%w: --topic %q", err, t)
		}
	}
	return nil
}

func canonicalTopic(name string) string {
	name = strings.TrimSpace(name)
	for _, t := range models.PopularTopics {
		if strings.EqualFold(t.Name, name) || strings.EqualFold(t.ID, name) {
			return t.Name
		}
	}
	return name
}

// applyShows adds the best search match for each query.
func (r *Runner) applyShows(ctx context.Context, w *wizard.Wizard, queries []string) error {
	for _, q := range queries {
		var search wizard.ShowSearch
		if err := search.Search(ctx, r.searcher, q); err != nil {
			return fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, wizard.SearchFailedMessage, err)
		}
		if len(search.Results) == 0 {
			return fmt.Errorf("%w: no show matches %q", shared.ErrNotFound, q)
		}

		show := search.Results[0]
		r.logger.Debug("matched show", "query", q, "show", show.Name)
		wizard.Shows(w.Draft(), w.OnChange()).Add(show)
	}
	return nil
}

func applyDuration(w *wizard.Wizard, cmd *cli.Command) error {
	if name := cmd.String("preset"); name != "" {
		preset, ok := findPreset(name)
		if !ok {
			return fmt.Errorf("%w: unknown --preset %q", shared.ErrInvalidArgument, name)
		}
		wizard.Duration(w.Draft(), w.OnChange()).SelectPreset(preset)
	}
	if cmd.IsSet("min") {
		wizard.Duration(w.Draft(), w.OnChange()).SetMin(int(cmd.Int("min")))
	}
	if cmd.IsSet("max") {
		wizard.Duration(w.Draft(), w.OnChange()).SetMax(int(cmd.Int("max")))
	}
	return nil
}

// findPreset matches a preset by its full name or first word, ignoring case.
func findPreset(name string) (models.DurationPreset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range models.DurationPresets {
		full := strings.ToLower(p.Name)
		if full == name || strings.Fields(full)[0] == name {
			return p, true
		}
	}
	return models.DurationPreset{}, false
}

func applyNotifications(w *wizard.Wizard, cmd *cli.Command) error {
	email := cmd.String("email")
	digests := cmd.StringSlice("digest")
	if email == "" && !cmd.Bool("notify") && len(digests) == 0 {
		return nil
	}

	wizard.Notifications(w.Draft(), w.OnChange()).ToggleEnabled()
	if email != "" {
		wizard.Notifications(w.Draft(), w.OnChange()).SetAddress(email)
	}
	if w.Draft().Email.Address == "" {
		return fmt.Errorf("%w: --email is required when your account has no address", shared.ErrMissingArgument)
	}

	for _, d := range digests {
		kind := models.NotificationKind(strings.ToLower(strings.TrimSpace(d)))
		if !slices.ContainsFunc(models.Notifications, func(n models.Notification) bool { return n.Kind == kind }) {
			return fmt.Errorf("%w: unknown --digest %q", shared.ErrInvalidArgument, d)
		}
		if !w.Draft().Email.Kind(kind) {
			wizard.Notifications(w.Draft(), w.OnChange()).ToggleKind(kind)
		}
	}
	return nil
}

// Preferences opens the interactive wizard.
func (r *Runner) Preferences(ctx context.Context, cmd *cli.Command) error {
	return r.runTUI(ctx, routes.Preferences)
}
