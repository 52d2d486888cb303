package ui

import (
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/routes"
	"github.com/desertthunder/podx/internal/server"
	"github.com/desertthunder/podx/internal/session"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/wizard"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	CallbackView
	WizardView
	DashboardView
)

// Session is the subset of [session.Store] the TUI drives.
type Session interface {
	CheckAuthStatus(ctx context.Context) session.State
	State() session.State
	BeginLogin(ctx context.Context) (string, error)
	CancelLogin()
	Logout(ctx context.Context) error
	MarkPreferencesSaved()
}

// Deps are the services behind the TUI.
type Deps struct {
	Session   Session
	Submitter wizard.Submitter
	Searcher  wizard.ShowSearcher
	Dashboard dashboard.Fetcher

	// AwaitCallback blocks until the login redirect is handled. Nil disables the callback view.
	AwaitCallback func(ctx context.Context) (server.CallbackResult, error)

	OpenURL      func(string) error // defaults to [shared.OpenBrowser]
	CopyURL      func(string) error // defaults to [shared.CopyToClipboard]
	EpisodeLimit int
	Logger       *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	deps      Deps
	logger    *log.Logger
	requested string
	view      ViewState
	gen       int
	state     session.State
	width     int
	height    int
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	notice    string
	err       error

	// login
	loginErr    string
	login       loginStarted
	cancelWait  context.CancelFunc
	loginActive bool

	// wizard
	wiz         *wizard.Wizard
	cursor      int
	inputActive bool
	topicInput  textinput.Model
	searchInput textinput.Model
	emailInput  textinput.Model
	search      wizard.ShowSearch
	submitting  bool

	// dashboard
	board    dashboard.Dashboard
	loading  bool
	episodes list.Model
}

// NewModel creates a TUI that resolves requested through the route guard once the session is checked.
func NewModel(ctx context.Context, deps Deps, requested string) *Model {
	if deps.OpenURL == nil {
		deps.OpenURL = shared.OpenBrowser
	}
	if deps.CopyURL == nil {
		deps.CopyURL = shared.CopyToClipboard
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if requested == "" {
		requested = routes.Root
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.cursor))

	return &Model{
		ctx:         ctx,
		deps:        deps,
		logger:      logger,
		requested:   requested,
		view:        LoadingView,
		spinner:     sp,
		help:        help.New(),
		keys:        newKeyMap(),
		topicInput:  newInput("Add a custom topic", 60),
		searchInput: newInput("Search for podcasts…", 100),
		emailInput:  newInput("you@example.com", 254),
		width:       80,
		height:      24,
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "› "
	return in
}

// Init checks the session and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkAuth())
}

// ViewState returns the current view.
func (m *Model) ViewState() ViewState { return m.view }

// Path returns the route the current view corresponds to.
func (m *Model) Path() string {
	switch m.view {
	case LoginView:
		return routes.LoginError(m.loginErr)
	case CallbackView:
		return routes.Callback
	case WizardView:
		return routes.Preferences
	case DashboardView:
		return routes.Dashboard
	}
	return routes.Root
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.view == DashboardView && !m.loading {
			m.episodes.SetSize(m.listSize())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		if msg.gen != m.gen {
			m.logger.Debug("dropping stale message", "kind", msg.kind, "gen", msg.gen, "current", m.gen)
			return m, nil
		}
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.force) {
			return m, m.quit()
		}
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, m.quit()
			}
		case LoginView:
			return m.handleLoginKeys(msg)
		case CallbackView:
			return m.handleCallbackKeys(msg)
		case WizardView:
			return m.handleWizardKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgAuthChecked:
		m.state = msg.data.(session.State)
		return m, m.navigate(m.requested)

	case MsgLoginStarted:
		ls := msg.data.(loginStarted)
		m.loginActive = false
		if ls.err != nil {
			m.err = ls.err
			return m, nil
		}
		m.login = ls
		m.state = m.deps.Session.State()
		return m, m.navigate(routes.Callback)

	case MsgCallbackDone:
		cd := msg.data.(callbackDone)
		m.stopWaiting()
		if cd.err != nil {
			m.deps.Session.CancelLogin()
			m.state = m.deps.Session.State()
			if errors.Is(cd.err, shared.ErrTimeout) {
				return m, m.navigate(routes.LoginError("timeout"))
			}
			m.err = cd.err
			return m, m.navigate(routes.Login)
		}
		m.state = m.deps.Session.State()
		return m, m.navigate(cd.result.RedirectTo)

	case MsgSearchDue:
		searchGen := msg.data.(int)
		if !m.search.Begin(searchGen) {
			return m, nil
		}
		return m, m.runSearch(searchGen, m.search.Query)

	case MsgSearchDone:
		sd := msg.data.(searchDone)
		if m.search.Resolve(sd.searchGen, sd.results, sd.err) && sd.err != nil {
			m.logger.Warn("show search failed", "query", m.search.Query, "error", sd.err)
		}
		return m, nil

	case MsgSubmitted:
		err := msgErr(msg.data)
		if errors.Is(err, shared.ErrSubmitInFlight) {
			return m, nil
		}
		m.submitting = false
		if err != nil {
			m.err = err
			return m, nil
		}
		m.deps.Session.MarkPreferencesSaved()
		m.state = m.deps.Session.State()
		return m, m.navigate(routes.Dashboard)

	case MsgDashboardLoaded:
		m.board = msg.data.(dashboard.Dashboard)
		m.loading = false
		w, h := m.listSize()
		m.episodes = list.New(episodeItems(m.board.RecentEpisodes()), list.NewDefaultDelegate(), w, h)
		m.episodes.Title = "Recent Episodes"
		m.episodes.SetShowHelp(false)
		return m, nil

	case MsgLoggedOut:
		if err := msgErr(msg.data); err != nil {
			m.err = err
		}
		m.state = m.deps.Session.State()
		return m, m.navigate(routes.Login)

	case MsgOpened:
		if err := msgErr(msg.data); err != nil {
			m.notice = "Could not open the browser."
		}
		return m, nil
	}
	return m, nil
}

// navigate resolves path through the route guard and enters the resulting view.
//
// Every call starts a new view generation, so replies to work started in the previous view are dropped.
func (m *Model) navigate(path string) tea.Cmd {
	authenticated := m.state.Kind == session.Authenticated
	resolved := routes.Resolve(authenticated, m.state.HasPreferences(), path)
	m.logger.Debug("navigate", "requested", path, "resolved", resolved)

	if m.view == CallbackView && resolved != routes.Callback {
		m.stopWaiting()
	}

	m.gen++
	m.notice = ""
	m.inputActive = false
	m.blurInputs()

	switch resolved {
	case routes.Login:
		m.view = LoginView
		m.loginErr = loginErrorCode(path)
		return nil
	case routes.Callback:
		if m.deps.AwaitCallback == nil {
			m.view = LoginView
			return nil
		}
		m.view = CallbackView
		return m.awaitCallback()
	case routes.Preferences:
		m.err = nil
		m.view = WizardView
		m.startWizard()
		return nil
	case routes.Dashboard:
		m.view = DashboardView
		m.loading = true
		return m.loadDashboard()
	}
	return nil
}

func loginErrorCode(path string) string {
	u, err := url.Parse(path)
	if err != nil {
		return ""
	}
	return u.Query().Get("error")
}

// LoginErrorMessage turns a login error indicator into user-facing text.
func LoginErrorMessage(code string) string {
	switch code {
	case "":
		return ""
	case server.CallbackFailed:
		return "Login failed. Please try again."
	case "access_denied":
		return "Spotify access was denied."
	case "timeout":
		return "Timed out waiting for Spotify. Please try again."
	}
	return "Login error: " + code
}

func (m *Model) quit() tea.Cmd {
	m.stopWaiting()
	return tea.Quit
}

func (m *Model) stopWaiting() {
	if m.cancelWait != nil {
		m.cancelWait()
		m.cancelWait = nil
	}
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 20), max(m.height-14, 6)
}

func (m *Model) checkAuth() tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		return authCheckedMsg(gen, m.deps.Session.CheckAuthStatus(m.ctx))
	}
}

func (m *Model) beginLogin() tea.Cmd {
	gen := m.gen
	sess, open, copyURL := m.deps.Session, m.deps.OpenURL, m.deps.CopyURL
	return func() tea.Msg {
		authURL, err := sess.BeginLogin(m.ctx)
		if err != nil {
			return loginStartedMsg(gen, loginStarted{err: err})
		}
		ls := loginStarted{url: authURL}
		if err := open(authURL); err == nil {
			ls.opened = true
		} else if err := copyURL(authURL); err == nil {
			ls.copied = true
		}
		return loginStartedMsg(gen, ls)
	}
}

func (m *Model) awaitCallback() tea.Cmd {
	gen := m.gen
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelWait = cancel
	wait := m.deps.AwaitCallback
	return func() tea.Msg {
		result, err := wait(ctx)
		return callbackDoneMsg(gen, result, err)
	}
}

func (m *Model) loadDashboard() tea.Cmd {
	gen := m.gen
	loader := dashboard.NewLoader(m.deps.Dashboard, m.deps.EpisodeLimit, m.logger)
	return func() tea.Msg {
		return dashboardLoadedMsg(gen, loader.Load(m.ctx))
	}
}

func (m *Model) logout() tea.Cmd {
	gen := m.gen
	sess := m.deps.Session
	return func() tea.Msg {
		return loggedOutMsg(gen, sess.Logout(m.ctx))
	}
}

func (m *Model) openURL(u string) tea.Cmd {
	gen := m.gen
	open := m.deps.OpenURL
	return func() tea.Msg {
		return openedMsg(gen, open(u))
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.login):
		if m.loginActive {
			return m, nil
		}
		m.loginActive = true
		m.err = nil
		m.loginErr = ""
		return m, m.beginLogin()
	}
	return m, nil
}

func (m *Model) handleCallbackKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.deps.Session.CancelLogin()
		return m, m.quit()
	case key.Matches(msg, m.keys.cancel):
		m.deps.Session.CancelLogin()
		m.state = m.deps.Session.State()
		return m, m.navigate(routes.Login)
	}
	return m, nil
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.refresh):
			return m, m.navigate(routes.Dashboard)
		}
		return m, nil
	}
	if m.episodes.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.episodes, cmd = m.episodes.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.refresh):
		return m, m.navigate(routes.Dashboard)
	case key.Matches(msg, m.keys.edit):
		return m, m.navigate(routes.Preferences)
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.episodes.SelectedItem().(episodeItem); ok && item.episode.SpotifyURL != "" {
			return m, m.openURL(item.episode.SpotifyURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.episodes, cmd = m.episodes.Update(msg)
	return m, cmd
}

// stored returns the preferences to prefill the wizard with, if the dashboard has real ones.
func (m *Model) stored() (models.PreferencesRecord, bool) {
	if m.board.Status.State != dashboard.Ok {
		return models.PreferencesRecord{}, false
	}
	prefs, placeholder := m.board.Preferences()
	return prefs, !placeholder
}
