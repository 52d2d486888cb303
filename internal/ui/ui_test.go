package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/server"
	"github.com/desertthunder/podx/internal/session"
	"github.com/desertthunder/podx/internal/wizard"
)

var testUser = models.User{ID: "u1", DisplayName: "Test User", Email: "test@example.com"}

type fakeSession struct {
	mu         sync.Mutex
	state      session.State
	beginErr   error
	prefsSaved bool
	loggedOut  bool
}

func (f *fakeSession) CheckAuthStatus(context.Context) session.State { return f.State() }

func (f *fakeSession) State() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (f *fakeSession) BeginLogin(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beginErr != nil {
		return "", f.beginErr
	}
	f.state = session.State{Kind: session.AwaitingExternalRedirect, AuthURL: "https://accounts.example/authorize"}
	return f.state.AuthURL, nil
}

func (f *fakeSession) CancelLogin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Kind == session.AwaitingExternalRedirect {
		f.state = session.State{Kind: session.Unauthenticated}
	}
}

func (f *fakeSession) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = true
	f.state = session.State{Kind: session.Unauthenticated}
	return nil
}

func (f *fakeSession) MarkPreferencesSaved() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefsSaved = true
	if f.state.User != nil {
		u := *f.state.User
		u.HasPreferences = true
		f.state.User = &u
	}
}

func (f *fakeSession) signIn(hasPreferences bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := testUser
	u.HasPreferences = hasPreferences
	f.state = session.State{Kind: session.Authenticated, User: &u}
}

type fakeSubmitter struct {
	mu   sync.Mutex
	err  error
	reqs []models.SavePreferencesRequest
}

func (f *fakeSubmitter) SavePreferences(_ context.Context, req models.SavePreferencesRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.err
}

type fakeSearcher struct {
	results map[string][]models.Show
	err     error
}

func (f fakeSearcher) SearchShows(_ context.Context, q string) ([]models.Show, error) {
	return f.results[q], f.err
}

type fakeFetcher struct {
	status    *models.Status
	statusErr error
	episodes  []models.Episode
}

func (f fakeFetcher) Status(context.Context) (*models.Status, error) { return f.status, f.statusErr }

func (f fakeFetcher) RecentEpisodes(context.Context, int) ([]models.Episode, error) {
	return f.episodes, nil
}

type harness struct {
	m       *Model
	sess    *fakeSession
	sub     *fakeSubmitter
	opened  []string
	copied  []string
	openErr error
}

func newHarness(t *testing.T, sess *fakeSession, configure func(*Deps)) *harness {
	t.Helper()
	h := &harness{sess: sess, sub: &fakeSubmitter{}}
	deps := Deps{
		Session:   sess,
		Submitter: h.sub,
		Searcher:  fakeSearcher{},
		Dashboard: fakeFetcher{
			status:   &models.Status{LastRun: "2 hours ago", EpisodesThisWeek: 3, QueueDuration: "1h"},
			episodes: []models.Episode{{ID: "e1", Name: "Episode One", ShowName: "Pivot", SpotifyURL: "https://open.spotify.com/episode/e1"}},
		},
		OpenURL: func(u string) error {
			h.opened = append(h.opened, u)
			return h.openErr
		},
		CopyURL: func(u string) error {
			h.copied = append(h.copied, u)
			return nil
		},
	}
	if configure != nil {
		configure(&deps)
	}
	h.m = NewModel(context.Background(), deps, "/")
	for _, in := range []*textinput.Model{&h.m.topicInput, &h.m.searchInput, &h.m.emailInput} {
		in.Cursor.SetMode(cursor.CursorStatic)
	}
	return h
}

// run executes cmd, expanding batches, and returns the app messages it produced.
func run(cmd tea.Cmd) []Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case Msg:
		return []Msg{msg}
	case tea.BatchMsg:
		var out []Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	}
	return nil
}

// send delivers msg and then every app message its commands produce.
func (h *harness) send(msg tea.Msg) {
	_, cmd := h.m.Update(msg)
	for _, next := range run(cmd) {
		h.send(next)
	}
}

func (h *harness) start() {
	h.send(h.m.checkAuth()())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartupRouting(t *testing.T) {
	t.Run("unauthenticated users see login", func(t *testing.T) {
		h := newHarness(t, &fakeSession{}, nil)
		h.start()

		if h.m.ViewState() != LoginView {
			t.Errorf("expected login view, got %v", h.m.ViewState())
		}
	})

	t.Run("new users see the wizard", func(t *testing.T) {
		sess := &fakeSession{}
		sess.signIn(false)
		h := newHarness(t, sess, nil)
		h.start()

		if h.m.ViewState() != WizardView {
			t.Fatalf("expected wizard view, got %v", h.m.ViewState())
		}
		if got := h.m.wiz.Draft().Email.Address; got != testUser.Email {
			t.Errorf("expected email seeded from user, got %q", got)
		}
	})

	t.Run("returning users see the dashboard", func(t *testing.T) {
		sess := &fakeSession{}
		sess.signIn(true)
		h := newHarness(t, sess, nil)
		h.start()

		if h.m.ViewState() != DashboardView {
			t.Fatalf("expected dashboard view, got %v", h.m.ViewState())
		}
		if h.m.loading {
			t.Error("dashboard should have loaded")
		}
		if !strings.Contains(h.m.View(), "2 hours ago") {
			t.Error("dashboard view missing status")
		}
	})
}

func TestLoginFlow(t *testing.T) {
	t.Run("successful callback enters the wizard", func(t *testing.T) {
		sess := &fakeSession{}
		h := newHarness(t, sess, func(d *Deps) {
			d.AwaitCallback = func(ctx context.Context) (server.CallbackResult, error) {
				sess.signIn(false)
				return server.CallbackResult{RedirectTo: "/"}, nil
			}
		})
		h.start()
		h.send(keyMsg("enter"))

		if len(h.opened) != 1 || h.opened[0] != "https://accounts.example/authorize" {
			t.Errorf("expected browser to open auth URL, got %v", h.opened)
		}
		if h.m.ViewState() != WizardView {
			t.Errorf("expected wizard view after login, got %v", h.m.ViewState())
		}
	})

	t.Run("failed callback returns to login with the error", func(t *testing.T) {
		sess := &fakeSession{}
		h := newHarness(t, sess, func(d *Deps) {
			d.AwaitCallback = func(ctx context.Context) (server.CallbackResult, error) {
				sess.CancelLogin()
				return server.CallbackResult{RedirectTo: "/login?error=callback_failed", Err: errors.New("exchange failed")}, nil
			}
		})
		h.start()
		h.send(keyMsg("enter"))

		if h.m.ViewState() != LoginView {
			t.Fatalf("expected login view, got %v", h.m.ViewState())
		}
		if h.m.Path() != "/login?error=callback_failed" {
			t.Errorf("unexpected path %q", h.m.Path())
		}
		if !strings.Contains(h.m.View(), "Login failed. Please try again.") {
			t.Error("login view should show the callback error")
		}
	})

	t.Run("clipboard fallback when the browser cannot open", func(t *testing.T) {
		h := newHarness(t, &fakeSession{}, func(d *Deps) {
			d.AwaitCallback = func(ctx context.Context) (server.CallbackResult, error) {
				<-ctx.Done()
				return server.CallbackResult{}, ctx.Err()
			}
		})
		h.openErr = errors.New("no display")
		h.start()

		_, cmd := h.m.Update(keyMsg("enter"))
		_, _ = h.m.Update(run(cmd)[0])

		if h.m.ViewState() != CallbackView {
			t.Fatalf("expected callback view, got %v", h.m.ViewState())
		}
		if len(h.copied) != 1 || !h.m.login.copied {
			t.Error("expected auth URL copied to clipboard")
		}

		h.send(keyMsg("esc"))
		if h.m.ViewState() != LoginView {
			t.Errorf("esc should cancel back to login, got %v", h.m.ViewState())
		}
		if h.sess.State().Kind != session.Unauthenticated {
			t.Error("cancel should leave the awaiting state")
		}
	})

	t.Run("login initiation errors are surfaced", func(t *testing.T) {
		h := newHarness(t, &fakeSession{beginErr: errors.New("backend down")}, nil)
		h.start()
		h.send(keyMsg("enter"))

		if h.m.ViewState() != LoginView || h.m.err == nil {
			t.Errorf("expected login view with error, got %v %v", h.m.ViewState(), h.m.err)
		}
	})
}

func TestStaleMessagesDropped(t *testing.T) {
	sess := &fakeSession{}
	sess.signIn(true)
	h := newHarness(t, sess, nil)

	_, cmd := h.m.Update(h.m.checkAuth()())
	first := run(cmd)
	if h.m.ViewState() != DashboardView || !h.m.loading {
		t.Fatalf("expected loading dashboard, got %v", h.m.ViewState())
	}

	_, cmd = h.m.Update(keyMsg("r"))
	second := run(cmd)

	for _, msg := range first {
		h.m.Update(msg)
	}
	if !h.m.loading {
		t.Fatal("message from the previous generation was applied")
	}

	for _, msg := range second {
		h.m.Update(msg)
	}
	if h.m.loading {
		t.Error("current generation message was dropped")
	}
}

func advanceToStep(t *testing.T, h *harness, step wizard.Step) {
	t.Helper()
	if h.m.wiz.Step() == wizard.StepTopics {
		h.send(keyMsg("space"))
	}
	for h.m.wiz.Step() < step {
		if h.m.wiz.Step() == wizard.StepShows {
			h.send(keyMsg("esc"))
		}
		h.send(keyMsg("tab"))
	}
	if h.m.wiz.Step() != step {
		t.Fatalf("expected step %v, got %v", step, h.m.wiz.Step())
	}
}

func TestWizardView(t *testing.T) {
	newWizard := func(t *testing.T, configure func(*Deps)) *harness {
		sess := &fakeSession{}
		sess.signIn(false)
		h := newHarness(t, sess, configure)
		h.start()
		return h
	}

	t.Run("topics gate blocks next", func(t *testing.T) {
		h := newWizard(t, nil)
		h.send(keyMsg("tab"))

		if h.m.wiz.Step() != wizard.StepTopics {
			t.Fatalf("should stay on topics, got %v", h.m.wiz.Step())
		}
		if h.m.notice == "" {
			t.Error("expected a notice explaining the gate")
		}

		h.send(keyMsg("space"))
		if !h.m.wiz.Draft().HasTopic(models.PopularTopics[0].Name) {
			t.Fatal("space should select the topic under the cursor")
		}
		h.send(keyMsg("tab"))
		if h.m.wiz.Step() != wizard.StepShows {
			t.Errorf("expected shows step, got %v", h.m.wiz.Step())
		}
	})

	t.Run("custom topic", func(t *testing.T) {
		h := newWizard(t, nil)
		h.send(keyMsg("a"))
		for _, r := range "Rust" {
			h.send(keyMsg(string(r)))
		}
		h.send(keyMsg("enter"))

		if !h.m.wiz.Draft().HasTopic("Rust") {
			t.Errorf("custom topic not added: %v", h.m.wiz.Draft().Topics)
		}
		if h.m.topicInput.Value() != "" {
			t.Error("input should clear after adding")
		}
	})

	t.Run("search ignores stale queries", func(t *testing.T) {
		h := newWizard(t, func(d *Deps) {
			d.Searcher = fakeSearcher{results: map[string][]models.Show{
				"la": {{ID: "lab", Name: "Huberman Lab"}},
			}}
		})
		advanceToStep(t, h, wizard.StepShows)
		if !h.m.searchInput.Focused() {
			t.Fatal("search box should be focused on the shows step")
		}

		h.m.Update(keyMsg("l"))
		staleGen := h.m.search.Generation()
		h.m.Update(keyMsg("a"))
		currentGen := h.m.search.Generation()

		_, cmd := h.m.Update(searchDueMsg(h.m.gen, staleGen))
		if cmd != nil {
			t.Error("stale debounce should not start a search")
		}

		h.send(searchDueMsg(h.m.gen, currentGen))
		if h.m.search.Searching {
			t.Fatal("search should have resolved")
		}
		if len(h.m.search.Results) != 1 || h.m.search.Results[0].ID != "lab" {
			t.Fatalf("unexpected results %v", h.m.search.Results)
		}

		h.send(keyMsg("down"))
		h.send(keyMsg("space"))
		if !h.m.wiz.Draft().HasShow("lab") {
			t.Error("selecting a result should add the show")
		}
	})

	t.Run("search failure shows message", func(t *testing.T) {
		h := newWizard(t, func(d *Deps) {
			d.Searcher = fakeSearcher{err: errors.New("boom")}
		})
		advanceToStep(t, h, wizard.StepShows)

		h.m.Update(keyMsg("x"))
		h.send(searchDueMsg(h.m.gen, h.m.search.Generation()))

		if h.m.search.Err != wizard.SearchFailedMessage {
			t.Errorf("unexpected search error %q", h.m.search.Err)
		}
	})

	t.Run("duration presets and sliders", func(t *testing.T) {
		h := newWizard(t, nil)
		advanceToStep(t, h, wizard.StepDuration)

		h.send(keyMsg("down"))
		h.send(keyMsg("enter"))
		if got := h.m.wiz.Draft().Duration; got != models.DurationPresets[1].Range {
			t.Errorf("expected standard preset, got %+v", got)
		}

		for range len(models.DurationPresets) - 1 {
			h.send(keyMsg("down"))
		}
		h.send(keyMsg("l"))
		if got := h.m.wiz.Draft().Duration.Min; got != models.DurationPresets[1].Range.Min+models.MinDurationSlider.Step {
			t.Errorf("slider did not step min, got %d", got)
		}
	})

	t.Run("submit success goes to dashboard", func(t *testing.T) {
		h := newWizard(t, nil)
		advanceToStep(t, h, wizard.StepNotifications)
		h.send(keyMsg("tab"))

		if len(h.sub.reqs) != 1 {
			t.Fatalf("expected one submission, got %d", len(h.sub.reqs))
		}
		if h.sub.reqs[0].UserID != testUser.ID {
			t.Errorf("unexpected user id %q", h.sub.reqs[0].UserID)
		}
		if !h.sess.prefsSaved {
			t.Error("session should record saved preferences")
		}
		if h.m.ViewState() != DashboardView {
			t.Errorf("expected dashboard view, got %v", h.m.ViewState())
		}
	})

	t.Run("submit failure keeps the draft", func(t *testing.T) {
		h := newWizard(t, nil)
		h.sub.err = errors.New("backend down")
		advanceToStep(t, h, wizard.StepNotifications)
		before := h.m.wiz.Draft()

		h.send(keyMsg("tab"))

		if h.m.ViewState() != WizardView || h.m.wiz.Step() != wizard.StepNotifications {
			t.Fatalf("should stay on the last step, got %v %v", h.m.ViewState(), h.m.wiz.Step())
		}
		if h.m.err == nil || !strings.Contains(h.m.View(), "backend down") {
			t.Error("submission error should be shown")
		}
		if h.m.wiz.Draft().Topics[0] != before.Topics[0] {
			t.Error("draft changed after a failed submission")
		}
	})
}

func TestDashboardView(t *testing.T) {
	t.Run("degraded status shows placeholders", func(t *testing.T) {
		sess := &fakeSession{}
		sess.signIn(true)
		h := newHarness(t, sess, func(d *Deps) {
			d.Dashboard = fakeFetcher{statusErr: errors.New("down")}
		})
		h.start()

		view := h.m.View()
		if !strings.Contains(view, dashboard.Unknown) || !strings.Contains(view, "(example)") {
			t.Errorf("expected placeholders in degraded dashboard\n%s", view)
		}
	})

	t.Run("edit prefills the wizard from stored preferences", func(t *testing.T) {
		sess := &fakeSession{}
		sess.signIn(true)
		h := newHarness(t, sess, func(d *Deps) {
			d.Dashboard = fakeFetcher{status: &models.Status{Preferences: &models.PreferencesRecord{
				Topics: []string{"History"}, MinDuration: 20, MaxDuration: 60,
			}}}
		})
		h.start()
		h.send(keyMsg("p"))

		if h.m.ViewState() != WizardView {
			t.Fatalf("expected wizard view, got %v", h.m.ViewState())
		}
		if !h.m.wiz.Draft().HasTopic("History") {
			t.Error("wizard should start from stored preferences")
		}
	})

	t.Run("enter opens the selected episode", func(t *testing.T) {
		sess := &fakeSession{}
		sess.signIn(true)
		h := newHarness(t, sess, nil)
		h.start()
		h.send(keyMsg("enter"))

		if len(h.opened) != 1 || h.opened[0] != "https://open.spotify.com/episode/e1" {
			t.Errorf("expected episode URL opened, got %v", h.opened)
		}
	})

	t.Run("logout returns to login", func(t *testing.T) {
		sess := &fakeSession{}
		sess.signIn(true)
		h := newHarness(t, sess, nil)
		h.start()
		h.send(keyMsg("L"))

		if !sess.loggedOut || h.m.ViewState() != LoginView {
			t.Errorf("expected logout and login view, got %v", h.m.ViewState())
		}
	})
}
