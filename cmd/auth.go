package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/routes"
	"github.com/desertthunder/podx/internal/server"
	"github.com/desertthunder/podx/internal/session"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/urfave/cli/v3"
)

// loginFlow pairs the session store with the local callback listener.
//
// The listener is bound before the authorization URL is requested, so the browser can never be
// redirected to a port nobody is listening on. It satisfies the TUI's session interface.
type loginFlow struct {
	*session.Store

	cfg    shared.ServerConfig
	logger *log.Logger

	mu       sync.Mutex
	listener *server.Listener
}

func newLoginFlow(store *session.Store, cfg shared.ServerConfig, logger *log.Logger) *loginFlow {
	return &loginFlow{Store: store, cfg: cfg, logger: shared.WithLogger(logger, "component", "callback")}
}

// BeginLogin binds the callback listener, then asks the backend for the authorization URL.
func (f *loginFlow) BeginLogin(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeListener()

	l, err := server.Listen(f.cfg.Addr(), f.cfg.CallbackTimeout(), f.logger)
	if err != nil {
		return "", err
	}

	authURL, err := f.Store.BeginLogin(ctx)
	if err != nil {
		l.Close()
		return "", err
	}
	f.listener = l
	return authURL, nil
}

// CancelLogin leaves the awaiting state and releases the listener.
func (f *loginFlow) CancelLogin() {
	f.Store.CancelLogin()
	f.Close()
}

// AwaitCallback serves the listener bound by [loginFlow.BeginLogin] until the first callback is handled.
func (f *loginFlow) AwaitCallback(ctx context.Context) (server.CallbackResult, error) {
	f.mu.Lock()
	l := f.listener
	f.listener = nil
	f.mu.Unlock()

	if l == nil {
		return server.CallbackResult{}, fmt.Errorf("%w: login was not started", shared.ErrCallbackFailed)
	}

	h := server.NewCallbackHandler(func(ctx context.Context, code, state string) error {
		_, err := f.Store.HandleCallback(ctx, code, state)
		return err
	}, f.logger)

	result, err := l.Wait(ctx, h)
	if err != nil {
		f.Store.CancelLogin()
	}
	return result, err
}

// CallbackURL is where the backend should redirect the browser.
func (f *loginFlow) CallbackURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listener != nil {
		return f.listener.URL() + routes.Callback
	}
	return "http://" + f.cfg.Addr() + routes.Callback
}

func (f *loginFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeListener()
}

func (f *loginFlow) closeListener() {
	if f.listener != nil {
		f.listener.Close()
		f.listener = nil
	}
}

// AuthLogin starts the OAuth handoff and waits for the browser to return to the local listener.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	if state := r.session.CheckAuthStatus(ctx); state.Kind == session.Authenticated && state.User != nil {
		r.writePlain("✓ Already logged in as %s\n", displayUser(state.User))
		return nil
	}

	authURL, err := r.flow.BeginLogin(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Sign in with Spotify to continue.\n")
	opened := false
	if !cmd.Bool("no-browser") {
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		} else {
			opened = true
		}
	}
	if !opened {
		if err := shared.CopyToClipboard(authURL); err == nil {
			r.writePlain("The authorization URL was copied to your clipboard.\n")
		}
	}
	r.writePlain("If the browser did not open, visit:\n  %s\n", authURL)
	r.writePlain("Waiting for the redirect on %s (timeout %s)\n", r.flow.CallbackURL(), r.config.Server.CallbackTimeout())

	result, err := r.flow.AwaitCallback(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if result.Err != nil {
		return result.Err
	}

	return r.writeLoggedIn()
}

// AuthCallback completes a login manually with the code and state from the redirect URL.
func (r *Runner) AuthCallback(ctx context.Context, cmd *cli.Command) error {
	code := cmd.String("code")
	if code == "" {
		return fmt.Errorf("%w: --code is required", shared.ErrMissingArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	if _, err := r.session.HandleCallback(ctx, code, cmd.String("state")); err != nil {
		return err
	}
	return r.writeLoggedIn()
}

func (r *Runner) writeLoggedIn() error {
	state := r.session.State()
	r.writePlain("✓ Logged in as %s\n", displayUser(state.User))
	next := routes.Resolve(true, state.HasPreferences(), routes.Root)
	if next == routes.Preferences {
		return r.writePlain("Next: run 'podx preferences' to tell the agent what you like\n")
	}
	return r.writePlain("Next: run 'podx status' to see what the agent has been up to\n")
}

type authStatus struct {
	State          string       `json:"state"`
	User           *models.User `json:"user,omitempty"`
	HasPreferences bool         `json:"hasPreferences"`
	Route          string       `json:"route"`
}

// AuthStatus reports the current session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	state := r.session.CheckAuthStatus(ctx)
	status := authStatus{
		State:          state.Kind.String(),
		User:           state.User,
		HasPreferences: state.HasPreferences(),
		Route:          routes.Resolve(state.Kind == session.Authenticated, state.HasPreferences(), routes.Root),
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if state.Kind != session.Authenticated {
		return r.writePlain("✗ Not logged in\nRun 'podx auth login' to sign in with Spotify\n")
	}

	r.writePlain("✓ Logged in as %s\n", displayUser(state.User))
	if status.HasPreferences {
		r.writePlain("Preferences: saved\n")
	} else {
		r.writePlain("Preferences: not set\n")
	}
	return r.writePlain("Home: %s\n", status.Route)
}

// AuthLogout ends the session. The backend is told when possible; the local token is always cleared.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	wasAuthenticated := r.session.IsAuthenticated()
	if err := r.session.Logout(ctx); err != nil {
		return err
	}

	if !wasAuthenticated {
		return r.writePlain("Not logged in\n")
	}
	return r.writePlain("✓ Logged out\n")
}

func displayUser(u *models.User) string {
	if u == nil {
		return "unknown user"
	}
	if u.Email == "" {
		return u.DisplayName
	}
	return fmt.Sprintf("%s (%s)", u.DisplayName, u.Email)
}

func isAuthError(err error) bool {
	return errors.Is(err, shared.ErrAuthFailed) || errors.Is(err, shared.ErrNotAuthenticated)
}
