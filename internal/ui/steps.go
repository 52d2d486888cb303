package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/wizard"
)

// topicColumns is the width of the popular topic grid.
const topicColumns = 3

// Rows on the notifications step.
const (
	rowEmailEnabled = iota
	rowEmailAddress
	rowFirstKind
)

func (m *Model) startWizard() {
	user := models.User{}
	if m.state.User != nil {
		user = *m.state.User
	}

	opts := []wizard.Option{wizard.WithLogger(m.logger)}
	if prefs, ok := m.stored(); ok {
		opts = append(opts, wizard.WithDraft(prefs.ToDraft()))
	}

	m.wiz = wizard.New(user, m.deps.Submitter, opts...)
	m.submitting = false
	m.search = wizard.ShowSearch{}
	m.topicInput.SetValue("")
	m.searchInput.SetValue("")
	m.emailInput.SetValue(m.wiz.Draft().Email.Address)
	m.enterStep()
}

// enterStep resets the cursor for the current step. The shows step starts with the search box focused.
func (m *Model) enterStep() {
	m.cursor = 0
	m.notice = ""
	m.blurInputs()
	m.inputActive = false
	if m.wiz.Step() == wizard.StepShows {
		m.focusInput(&m.searchInput)
	}
}

func (m *Model) blurInputs() {
	m.topicInput.Blur()
	m.searchInput.Blur()
	m.emailInput.Blur()
}

func (m *Model) focusInput(in *textinput.Model) tea.Cmd {
	m.blurInputs()
	m.inputActive = true
	return in.Focus()
}

// activeInput returns the focused text box, if any.
func (m *Model) activeInput() *textinput.Model {
	if !m.inputActive {
		return nil
	}
	switch {
	case m.topicInput.Focused():
		return &m.topicInput
	case m.searchInput.Focused():
		return &m.searchInput
	case m.emailInput.Focused():
		return &m.emailInput
	}
	return nil
}

func (m *Model) topics() wizard.TopicsEditor {
	return wizard.Topics(m.wiz.Draft(), m.wiz.OnChange())
}

func (m *Model) shows() wizard.ShowsEditor {
	return wizard.Shows(m.wiz.Draft(), m.wiz.OnChange())
}

func (m *Model) duration() wizard.DurationEditor {
	return wizard.Duration(m.wiz.Draft(), m.wiz.OnChange())
}

func (m *Model) notifications() wizard.NotificationsEditor {
	return wizard.Notifications(m.wiz.Draft(), m.wiz.OnChange())
}

// topicChoices lists the popular topics followed by custom ones, in selection order.
func (m *Model) topicChoices() []string {
	names := make([]string, 0, len(models.PopularTopics))
	for _, t := range models.PopularTopics {
		names = append(names, t.Name)
	}
	return append(names, m.topics().Custom()...)
}

// showChoices lists search results when a query is active and the featured shows otherwise.
func (m *Model) showChoices() []models.Show {
	if m.search.Query != "" {
		return m.search.Results
	}
	return models.FeaturedShows
}

func (m *Model) notificationRows() int {
	if m.wiz.Draft().Email.Enabled {
		return rowFirstKind + len(models.Notifications)
	}
	return 1
}

func (m *Model) stepRows() int {
	switch m.wiz.Step() {
	case wizard.StepTopics:
		return len(m.topicChoices())
	case wizard.StepShows:
		return len(m.showChoices())
	case wizard.StepDuration:
		return len(models.DurationPresets) + 2
	case wizard.StepNotifications:
		return m.notificationRows()
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	rows := m.stepRows()
	if rows == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(rows-1, m.cursor+delta))
}

func (m *Model) handleWizardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if in := m.activeInput(); in != nil {
		return m.handleInputKeys(msg, in)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.next):
		if m.wiz.IsLast() {
			return m, m.submit()
		}
		if m.wiz.Next() {
			m.err = nil
			m.enterStep()
		} else {
			m.notice = blockedNotice(m.wiz.Step())
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		if m.wiz.Back() {
			m.enterStep()
		}
		return m, nil
	}

	switch m.wiz.Step() {
	case wizard.StepTopics:
		return m.handleTopicKeys(msg)
	case wizard.StepShows:
		return m.handleShowKeys(msg)
	case wizard.StepDuration:
		return m.handleDurationKeys(msg)
	case wizard.StepNotifications:
		return m.handleNotificationKeys(msg)
	}
	return m, nil
}

func blockedNotice(step wizard.Step) string {
	switch step {
	case wizard.StepTopics:
		return "Pick at least one topic to continue."
	case wizard.StepDuration:
		return "Set both a minimum and maximum length."
	}
	return ""
}

// handleInputKeys routes keys to a focused text box. enter commits and esc leaves the box.
func (m *Model) handleInputKeys(msg tea.KeyMsg, in *textinput.Model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		if in == &m.emailInput {
			m.notifications().SetAddress(m.emailInput.Value())
		}
		m.inputActive = false
		in.Blur()
		return m, nil

	case key.Matches(msg, m.keys.enter):
		switch in {
		case &m.topicInput:
			buf := wizard.TopicInput{Buffer: m.topicInput.Value()}
			if err := m.topics().AddCustom(&buf); err != nil {
				m.notice = "Enter a new topic name."
				return m, nil
			}
			m.topicInput.SetValue(buf.Buffer)
			m.notice = ""
		case &m.emailInput:
			m.notifications().SetAddress(m.emailInput.Value())
			m.inputActive = false
			in.Blur()
		case &m.searchInput:
			if len(m.showChoices()) > 0 {
				m.inputActive = false
				in.Blur()
			}
		}
		return m, nil

	case msg.Type == tea.KeyDown && in == &m.searchInput:
		if len(m.showChoices()) > 0 {
			m.inputActive = false
			in.Blur()
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.next) || key.Matches(msg, m.keys.back):
		if in == &m.emailInput {
			m.notifications().SetAddress(m.emailInput.Value())
		}
		m.inputActive = false
		in.Blur()
		return m.handleWizardKeys(msg)
	}

	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)

	if in == &m.searchInput && in.Value() != before {
		return m, tea.Batch(cmd, m.querySearch(in.Value()))
	}
	return m, cmd
}

// querySearch records a new query and schedules its search after the debounce.
func (m *Model) querySearch(q string) tea.Cmd {
	searchGen, ok := m.search.SetQuery(q)
	m.cursor = 0
	if !ok {
		return nil
	}
	gen := m.gen
	return tea.Tick(wizard.SearchDebounce, func(time.Time) tea.Msg {
		return searchDueMsg(gen, searchGen)
	})
}

func (m *Model) runSearch(searchGen int, q string) tea.Cmd {
	gen := m.gen
	searcher := m.deps.Searcher
	if searcher == nil {
		searcher = noSearch{}
	}
	return func() tea.Msg {
		results, err := searcher.SearchShows(m.ctx, q)
		return searchDoneMsg(gen, searchGen, results, err)
	}
}

// noSearch stands in when no searcher is configured.
type noSearch struct{}

func (noSearch) SearchShows(context.Context, string) ([]models.Show, error) {
	return nil, fmt.Errorf("%w: show search", shared.ErrServiceUnavailable)
}

func (m *Model) handleTopicKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.add):
		return m, m.focusInput(&m.topicInput)
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-topicColumns)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(topicColumns)
	case key.Matches(msg, m.keys.left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.toggle), key.Matches(msg, m.keys.enter):
		choices := m.topicChoices()
		if m.cursor < len(choices) {
			m.topics().Toggle(choices[m.cursor])
			m.moveCursor(0)
			m.notice = ""
		}
	}
	return m, nil
}

func (m *Model) handleShowKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.add):
		return m, m.focusInput(&m.searchInput)
	case key.Matches(msg, m.keys.up):
		if m.cursor == 0 {
			return m, m.focusInput(&m.searchInput)
		}
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.toggle), key.Matches(msg, m.keys.enter):
		choices := m.showChoices()
		if m.cursor < len(choices) {
			m.shows().Toggle(choices[m.cursor])
		}
	}
	return m, nil
}

func (m *Model) handleDurationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	presets := len(models.DurationPresets)
	switch {
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.toggle), key.Matches(msg, m.keys.enter):
		if m.cursor < presets {
			m.duration().SelectPreset(models.DurationPresets[m.cursor])
		}
	case key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.right):
		delta := 1
		if key.Matches(msg, m.keys.left) {
			delta = -1
		}
		switch m.cursor {
		case presets:
			m.duration().StepMin(delta)
		case presets + 1:
			m.duration().StepMax(delta)
		}
	}
	return m, nil
}

func (m *Model) handleNotificationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.toggle), key.Matches(msg, m.keys.enter):
		switch {
		case m.cursor == rowEmailEnabled:
			m.notifications().ToggleEnabled()
			m.moveCursor(0)
		case m.cursor == rowEmailAddress:
			return m, m.focusInput(&m.emailInput)
		case m.cursor >= rowFirstKind:
			i := m.cursor - rowFirstKind
			if i < len(models.Notifications) {
				m.notifications().ToggleKind(models.Notifications[i].Kind)
			}
		}
	}
	return m, nil
}

func (m *Model) submit() tea.Cmd {
	if !m.wiz.IsLast() || m.submitting {
		return nil
	}
	m.submitting = true
	m.err = nil
	gen := m.gen
	wiz := m.wiz
	return func() tea.Msg {
		return submittedMsg(gen, wiz.Submit(m.ctx))
	}
}

// updateInputs forwards non-key messages (cursor blink) to the focused text box.
func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	in := m.activeInput()
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}
