package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
)

// TokenStore persists the session token.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// AuthClient is the subset of the backend used for authentication.
type AuthClient interface {
	AuthURL(ctx context.Context) (string, error)
	ExchangeCode(ctx context.Context, code, state string) (*models.AuthSession, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// Kind tags the authentication state.
type Kind int

const (
	Unauthenticated Kind = iota
	AwaitingExternalRedirect
	Authenticated
)

func (k Kind) String() string {
	switch k {
	case AwaitingExternalRedirect:
		return "awaiting_redirect"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is a snapshot of the session.
//
// AuthURL is set only for [AwaitingExternalRedirect]. User may be nil for [Authenticated] until it is fetched.
type State struct {
	Kind    Kind
	AuthURL string
	User    *models.User
}

// HasPreferences reports whether the authenticated user has saved preferences.
func (s State) HasPreferences() bool {
	return s.User != nil && s.User.HasPreferences
}

type phase int

const (
	phaseInit phase = iota
	phaseReady
	phaseDisposed
)

const userKey = "current_user"

// Store holds the token and cached user behind a mutex. Network calls run without the lock held.
type Store struct {
	mu      sync.RWMutex
	tokens  TokenStore
	auth    AuthClient
	users   *cache.Cache
	logger  *log.Logger
	phase   phase
	token   string
	authURL string
	// epoch changes whenever the token does, so a fetch started under an old token never caches its user.
	epoch int
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithUserCacheTTL expires the cached user after ttl. Zero keeps it until logout.
func WithUserCacheTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.users = cache.New(ttl, 2*ttl)
		}
	}
}

// New creates a store in the uninitialized phase.
func New(tokens TokenStore, auth AuthClient, opts ...Option) *Store {
	s := &Store{
		tokens: tokens,
		auth:   auth,
		users:  cache.New(cache.NoExpiration, 0),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init reads the durable token and moves the store to ready. Calling it again is a no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	switch s.phase {
	case phaseReady:
		s.mu.Unlock()
		return nil
	case phaseDisposed:
		s.mu.Unlock()
		return shared.ErrSessionClosed
	}
	s.mu.Unlock()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseDisposed {
		return shared.ErrSessionClosed
	}
	s.token = token
	s.phase = phaseReady
	s.logger.Debug("session initialized", "has_token", token != "")
	return nil
}

// Close disposes the store and drops the cached user. The durable token is kept.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = phaseDisposed
	s.users.Flush()
	return nil
}

func (s *Store) ready() error {
	switch s.phase {
	case phaseInit:
		return shared.ErrSessionNotReady
	case phaseDisposed:
		return shared.ErrSessionClosed
	}
	return nil
}

// Token implements [oauth2.TokenSource].
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// IsAuthenticated reports whether a token exists.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready() == nil && s.token != ""
}

// State returns a snapshot of the tagged authentication state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ready() != nil {
		return State{Kind: Unauthenticated}
	}
	switch {
	case s.token != "":
		return State{Kind: Authenticated, User: s.cachedUser()}
	case s.authURL != "":
		return State{Kind: AwaitingExternalRedirect, AuthURL: s.authURL}
	default:
		return State{Kind: Unauthenticated}
	}
}

// cachedUser returns a copy of the cached user. Callers hold mu.
func (s *Store) cachedUser() *models.User {
	if v, found := s.users.Get(userKey); found {
		u := *v.(*models.User)
		return &u
	}
	return nil
}

func (s *Store) cacheUser(u *models.User) {
	c := *u
	s.users.Set(userKey, &c, cache.DefaultExpiration)
}

// setToken replaces the token and invalidates in-flight user fetches. Callers hold mu.
func (s *Store) setToken(token string) {
	s.token = token
	s.authURL = ""
	s.epoch++
	s.users.Delete(userKey)
}

// CurrentUser returns the cached user, fetching it when a token exists but nothing is cached.
//
// A failed fetch clears the token and cache and yields (nil, nil). Only lifecycle errors are returned.
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	if err := s.ready(); err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	if u := s.cachedUser(); u != nil {
		s.mu.RUnlock()
		return u, nil
	}
	token, epoch := s.token, s.epoch
	s.mu.RUnlock()

	if token == "" {
		return nil, nil
	}

	user, err := s.auth.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || s.ready() != nil {
		return s.cachedUser(), nil
	}

	if err != nil {
		s.logger.Warn("failed to fetch current user, clearing session", "error", err)
		s.setToken("")
		if cerr := s.tokens.Clear(ctx); cerr != nil {
			s.logger.Error("failed to clear session token", "error", cerr)
		}
		return nil, nil
	}

	s.cacheUser(user)
	return s.cachedUser(), nil
}

// BeginLogin asks the backend for the authorization URL and enters [AwaitingExternalRedirect].
//
// The caller performs the handoff (opening a browser). Failures wrap [shared.ErrAuthFailed].
func (s *Store) BeginLogin(ctx context.Context) (string, error) {
	s.mu.RLock()
	err := s.ready()
	s.mu.RUnlock()
	if err != nil {
		return "", err
	}

	authURL, err := s.auth.AuthURL(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return "", err
	}
	s.authURL = authURL
	s.logger.Info("login started", "auth_url", authURL)
	return authURL, nil
}

// CancelLogin leaves [AwaitingExternalRedirect] without touching an existing token.
func (s *Store) CancelLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authURL = ""
}

// HandleCallback exchanges the authorization code for a session, storing the token durably and caching the user.
func (s *Store) HandleCallback(ctx context.Context, code, state string) (*models.User, error) {
	s.mu.RLock()
	err := s.ready()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		s.CancelLogin()
		return nil, fmt.Errorf("%w: missing authorization code", shared.ErrAuthFailed)
	}

	session, err := s.auth.ExchangeCode(ctx, code, state)
	if err != nil {
		s.CancelLogin()
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	// Held across the save so Close cannot dispose the store between persisting and adopting the token.
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, session.Token); err != nil {
		s.authURL = ""
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	s.setToken(session.Token)
	s.cacheUser(session.User)
	s.logger.Info("login complete", "user_id", session.User.ID)
	return s.cachedUser(), nil
}

// Logout notifies the backend when a token exists, then always clears the token and cached user.
//
// A backend failure is logged, not returned. Only a failure to clear the durable token is an error.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.RLock()
	if err := s.ready(); err != nil {
		s.mu.RUnlock()
		return err
	}
	hasToken := s.token != ""
	s.mu.RUnlock()

	if hasToken {
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Warn("backend logout failed", "error", err)
		}
	}

	s.mu.Lock()
	s.setToken("")
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// CheckAuthStatus initializes the store if needed and resolves the current user.
//
// It never fails: any startup error is logged and reported as [Unauthenticated].
func (s *Store) CheckAuthStatus(ctx context.Context) State {
	if err := s.Init(ctx); err != nil {
		s.logger.Warn("session init failed", "error", err)
		return State{Kind: Unauthenticated}
	}

	if _, err := s.CurrentUser(ctx); err != nil {
		s.logger.Warn("auth status check failed", "error", err)
		return State{Kind: Unauthenticated}
	}
	return s.State()
}

// MarkPreferencesSaved flags the cached user as having saved preferences.
func (s *Store) MarkPreferencesSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.cachedUser(); u != nil {
		u.HasPreferences = true
		s.cacheUser(u)
	}
}
