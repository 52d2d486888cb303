package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/routes"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/session"
	"github.com/desertthunder/podx/internal/shared"
	tu "github.com/desertthunder/podx/internal/testing"
	"github.com/urfave/cli/v3"
)

// newTestRunner wires a runner to backend with a file-backed token database, so sessions survive between runs.
func newTestRunner(t *testing.T, backend *tu.FakeBackend) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.API.BaseURL = backend.URL()
	config.Database.Path = filepath.Join(t.TempDir(), "podx.db")
	config.Server.Host = "127.0.0.1"
	config.Server.Port = 0

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:   config,
		Logger:   shared.NewLogger(io.Discard),
		Output:   output,
		Searcher: services.NewFeaturedCatalog(models.FeaturedShows),
	})
	t.Cleanup(func() { runner.Close() })
	return runner, output
}

// run executes args against a fresh command tree, as main does.
func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:     "podx",
		Flags:    globalFlags(),
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"podx"}, args...))
}

func login(t *testing.T, r *Runner, out *bytes.Buffer) {
	t.Helper()
	if err := run(r, "auth", "callback", "--code", "abc", "--state", "xyz"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	out.Reset()
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if !runner.configLoaded {
				t.Error("expected a provided config to count as loaded")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.configLoaded {
				t.Error("expected the config file to still be loaded by Before")
			}
			if runner.logger == nil || runner.output == nil {
				t.Error("expected default logger and output")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := output.String(); got != "{\n  \"key\": \"value\"\n}\n" {
				t.Errorf("unexpected output %q", got)
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON([]int{1, 2}, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := output.String(); got != "[1,2]\n" {
				t.Errorf("unexpected output %q", got)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON("x", false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			w := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &w})

			err := runner.writeJSON("x", false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlain("%d %s", 1, "topic")
		runner.writePlainln("next")
		if got := output.String(); got != "1 topic\nnext\n" {
			t.Errorf("unexpected output %q", got)
		}

		failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := failing.writePlain("x"); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		var names []string
		for _, c := range runner.register() {
			names = append(names, c.Name)
		}

		want := "setup auth preferences status episodes shows route tui"
		if got := strings.Join(names, " "); got != want {
			t.Errorf("expected commands %q, got %q", want, got)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("status when logged out", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)

		if err := run(r, "auth", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Not logged in") {
			t.Errorf("unexpected output %q", out.String())
		}
		if len(backend.Requests("/api/auth/me")) != 0 {
			t.Error("expected no identity request without a token")
		}
	})

	t.Run("callback logs in and persists the token", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)

		if err := run(r, "auth", "callback", "--code", "abc", "--state", "xyz"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Logged in as Test User (test@example.com)") {
			t.Errorf("unexpected output %q", out.String())
		}
		if !strings.Contains(out.String(), "podx preferences") {
			t.Errorf("expected a pointer to the wizard, got %q", out.String())
		}

		out.Reset()
		if err := run(r, "auth", "status", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var status authStatus
		if err := json.Unmarshal(out.Bytes(), &status); err != nil {
			t.Fatalf("invalid JSON %q: %v", out.String(), err)
		}
		if status.State != "authenticated" || status.User == nil || status.User.ID != "u1" {
			t.Errorf("unexpected status %+v", status)
		}
		if status.Route != routes.Preferences {
			t.Errorf("expected home %s, got %s", routes.Preferences, status.Route)
		}
	})

	t.Run("failed exchange", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		backend.Update(func(s *tu.BackendState) { s.Failures["/api/auth/spotify/callback"] = http.StatusBadGateway })
		r, _ := newTestRunner(t, backend)

		err := run(r, "auth", "callback", "--code", "abc")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if !isAuthError(err) {
			t.Error("expected main to treat the failure as an auth error")
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "auth", "logout"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Logged out") {
			t.Errorf("unexpected output %q", out.String())
		}
		if len(backend.Requests("/api/auth/logout")) != 1 {
			t.Error("expected the backend to be told")
		}

		out.Reset()
		if err := run(r, "auth", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Not logged in") {
			t.Errorf("expected logged out status, got %q", out.String())
		}
	})

	t.Run("logout survives a backend failure", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)
		backend.Update(func(s *tu.BackendState) { s.Failures["/api/auth/logout"] = http.StatusInternalServerError })

		if err := run(r, "auth", "logout"); err != nil {
			t.Fatalf("expected logout to succeed locally, got %v", err)
		}
	})
}

func TestLoginFlow(t *testing.T) {
	newFlow := func(t *testing.T, backend *tu.FakeBackend) (*loginFlow, *Runner) {
		t.Helper()
		r, _ := newTestRunner(t, backend)
		if err := r.connect(context.Background()); err != nil {
			t.Fatalf("connect failed: %v", err)
		}
		return r.flow, r
	}

	t.Run("listener is bound before the redirect", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		flow, r := newFlow(t, backend)

		authURL, err := flow.BeginLogin(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(authURL, "https://accounts.spotify.com/authorize") {
			t.Errorf("unexpected auth URL %s", authURL)
		}
		if r.session.State().Kind != session.AwaitingExternalRedirect {
			t.Errorf("expected awaiting redirect, got %v", r.session.State().Kind)
		}

		callbackURL := flow.CallbackURL()
		if strings.HasSuffix(callbackURL, ":0"+routes.Callback) {
			t.Fatalf("expected the bound port, got %s", callbackURL)
		}

		done := make(chan error, 1)
		go func() {
			resp, err := http.Get(callbackURL + "?code=abc&state=xyz")
			if err == nil {
				resp.Body.Close()
			}
			done <- err
		}()

		result, err := flow.AwaitCallback(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := <-done; err != nil {
			t.Fatalf("callback request failed: %v", err)
		}
		if result.Err != nil || result.RedirectTo != routes.Root {
			t.Errorf("unexpected result %+v", result)
		}
		if state := r.session.State(); state.Kind != session.Authenticated {
			t.Errorf("expected authenticated, got %v", state.Kind)
		}
	})

	t.Run("backend failure releases the listener", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		backend.Update(func(s *tu.BackendState) { s.Failures["/api/auth/spotify/url"] = http.StatusServiceUnavailable })
		flow, _ := newFlow(t, backend)

		if _, err := flow.BeginLogin(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if flow.listener != nil {
			t.Error("expected no listener after a failed start")
		}
	})

	t.Run("await without login", func(t *testing.T) {
		flow, _ := newFlow(t, tu.NewFakeBackend(t))

		if _, err := flow.AwaitCallback(context.Background()); !errors.Is(err, shared.ErrCallbackFailed) {
			t.Errorf("expected ErrCallbackFailed, got %v", err)
		}
	})

	t.Run("cancel releases the listener", func(t *testing.T) {
		flow, r := newFlow(t, tu.NewFakeBackend(t))

		if _, err := flow.BeginLogin(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		flow.CancelLogin()

		if flow.listener != nil {
			t.Error("expected the listener to be closed")
		}
		if r.session.State().Kind != session.Unauthenticated {
			t.Errorf("expected unauthenticated, got %v", r.session.State().Kind)
		}
	})
}

func TestPreferencesSet(t *testing.T) {
	t.Run("submits the draft built from flags", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		err := run(r, "preferences", "set",
			"--topic", "technology",
			"--topic", "Indie Games",
			"--show", "huberman",
			"--preset", "standard",
			"--email", "me@example.com",
			"--digest", "weekly",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		reqs := backend.Requests("/api/web/preferences")
		if len(reqs) != 1 {
			t.Fatalf("expected one save request, got %d", len(reqs))
		}

		var body models.SavePreferencesRequest
		if err := json.Unmarshal(reqs[0].Body, &body); err != nil {
			t.Fatalf("invalid body: %v", err)
		}

		p := body.Preferences
		if body.UserID != "u1" {
			t.Errorf("expected user u1, got %s", body.UserID)
		}
		if strings.Join(p.Topics, ",") != "Technology,Indie Games" {
			t.Errorf("unexpected topics %v", p.Topics)
		}
		if len(p.Shows) != 1 || p.Shows[0].ID != "huberman" {
			t.Errorf("unexpected shows %+v", p.Shows)
		}
		if p.MinDuration != 20 || p.MaxDuration != 60 {
			t.Errorf("expected the standard preset, got %d-%d", p.MinDuration, p.MaxDuration)
		}
		if !p.EmailEnabled || p.EmailAddress != "me@example.com" {
			t.Errorf("unexpected email settings %v %s", p.EmailEnabled, p.EmailAddress)
		}
		if !strings.Contains(out.String(), "Preferences saved") {
			t.Errorf("unexpected output %q", out.String())
		}
		if !r.session.State().HasPreferences() {
			t.Error("expected the cached user to be marked as having preferences")
		}
	})

	t.Run("custom range overrides the default", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "preferences", "set", "--topic", "History", "--min", "30", "--max", "90"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var body models.SavePreferencesRequest
		json.Unmarshal(backend.Requests("/api/web/preferences")[0].Body, &body)
		if body.Preferences.MinDuration != 30 || body.Preferences.MaxDuration != 90 {
			t.Errorf("unexpected range %+v", body.Preferences)
		}
		if body.Preferences.EmailEnabled {
			t.Error("email should stay off without --email or --notify")
		}
	})

	t.Run("dry run prints the request", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "preferences", "set", "--topic", "Science", "--notify", "--dry-run"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(backend.Requests("/api/web/preferences")) != 0 {
			t.Error("dry run must not submit")
		}

		var body models.SavePreferencesRequest
		if err := json.Unmarshal(out.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON %q: %v", out.String(), err)
		}
		if !body.Preferences.EmailEnabled || body.Preferences.EmailAddress != "test@example.com" {
			t.Errorf("expected the account address, got %+v", body.Preferences)
		}
	})

	tc := []struct {
		name string
		args []string
		want error
	}{
		{name: "no topics", args: []string{"--show", "pivot"}, want: shared.ErrMissingArgument},
		{name: "unknown preset", args: []string{"--topic", "AI", "--preset", "forever"}, want: shared.ErrInvalidArgument},
		{name: "unknown digest", args: []string{"--topic", "AI", "--digest", "hourly"}, want: shared.ErrInvalidArgument},
		{name: "no matching show", args: []string{"--topic", "AI", "--show", "zzzzqqq"}, want: shared.ErrNotFound},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			backend := tu.NewFakeBackend(t)
			r, out := newTestRunner(t, backend)
			login(t, r, out)

			err := run(r, append([]string{"preferences", "set"}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(backend.Requests("/api/web/preferences")) != 0 {
				t.Error("nothing should be submitted")
			}
		})
	}

	t.Run("submission failure", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		backend.Update(func(s *tu.BackendState) { s.Failures["/api/web/preferences"] = http.StatusInternalServerError })
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		err := run(r, "preferences", "set", "--topic", "AI")
		if !errors.Is(err, shared.ErrSubmitFailed) {
			t.Errorf("expected ErrSubmitFailed, got %v", err)
		}
	})

	t.Run("requires a session", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewFakeBackend(t))

		if err := run(r, "preferences", "set", "--topic", "AI"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestDashboardCommands(t *testing.T) {
	t.Run("status text", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Agent Status", "2 hours ago", "4h 25m", "Scaling Laws"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected %q in output:\n%s", want, out.String())
			}
		}
	})

	t.Run("status degrades when a fetch fails", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		backend.Update(func(s *tu.BackendState) { s.Failures["/api/web/status"] = http.StatusServiceUnavailable })
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "status"); err != nil {
			t.Fatalf("a failed fetch should not fail the command: %v", err)
		}
		if !strings.Contains(out.String(), "Scaling Laws") {
			t.Errorf("expected episodes to still render:\n%s", out.String())
		}
	})

	t.Run("status json", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "status", "--format", "json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var view map[string]any
		if err := json.Unmarshal(out.Bytes(), &view); err != nil {
			t.Fatalf("invalid JSON %q: %v", out.String(), err)
		}
	})

	t.Run("status rejects unknown formats", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewFakeBackend(t))

		if err := run(r, "status", "--format", "yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("status requires a session", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewFakeBackend(t))

		if err := run(r, "status"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("episodes json with limit", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "episodes", "--limit", "1", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var episodes []models.Episode
		if err := json.Unmarshal(out.Bytes(), &episodes); err != nil {
			t.Fatalf("invalid JSON %q: %v", out.String(), err)
		}
		if len(episodes) != 1 || episodes[0].ID != "e1" {
			t.Errorf("unexpected episodes %+v", episodes)
		}
		if q := backend.Requests("/api/web/recent-episodes")[0].Query; q != "limit=1" {
			t.Errorf("expected limit=1, got %s", q)
		}
	})

	t.Run("episodes failure is an error", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		backend.Update(func(s *tu.BackendState) { s.Failures["/api/web/recent-episodes"] = http.StatusInternalServerError })
		r, out := newTestRunner(t, backend)
		login(t, r, out)

		if err := run(r, "episodes"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestShowsAndRoute(t *testing.T) {
	t.Run("shows search", func(t *testing.T) {
		r, out := newTestRunner(t, tu.NewFakeBackend(t))

		if err := run(r, "shows", "search", "huberman"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "1. Huberman Lab") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("shows search json", func(t *testing.T) {
		r, out := newTestRunner(t, tu.NewFakeBackend(t))

		if err := run(r, "shows", "search", "--json", "pivot"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var shows []models.Show
		if err := json.Unmarshal(out.Bytes(), &shows); err != nil {
			t.Fatalf("invalid JSON %q: %v", out.String(), err)
		}
		if len(shows) == 0 || shows[0].ID != "pivot" {
			t.Errorf("unexpected shows %+v", shows)
		}
	})

	t.Run("shows search needs a query", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewFakeBackend(t))

		if err := run(r, "shows", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("route follows the session", func(t *testing.T) {
		backend := tu.NewFakeBackend(t)
		r, out := newTestRunner(t, backend)

		tc := []struct {
			path, want string
		}{
			{routes.Dashboard, routes.Login},
			{routes.Callback, routes.Callback},
		}
		for _, tt := range tc {
			out.Reset()
			if err := run(r, "route", tt.path); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.TrimSpace(out.String()); got != tt.path+" → "+tt.want {
				t.Errorf("expected %s → %s, got %q", tt.path, tt.want, got)
			}
		}

		login(t, r, out)
		if err := run(r, "route"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(out.String()); got != "/ → /preferences" {
			t.Errorf("unexpected route %q", got)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		t.Chdir(t.TempDir())
		output := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		if err := run(r, "--config", "podx.toml", "setup"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, "podx.toml")
		tu.AssertFileExists(t, r.config.Database.Path)
		if !strings.Contains(output.String(), "Created podx.toml") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("keeps an existing config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "tokens.db")
		if err := shared.SaveConfig(path, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		output := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})
		if err := run(r, "-c", path, "setup"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "Using existing config") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}
