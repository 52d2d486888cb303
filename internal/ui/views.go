package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/desertthunder/podx/internal/formatter"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/wizard"
)

const progressWidth = 30

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("\n %s Checking your session…\n", m.spinner.View())
	case LoginView:
		return m.renderLogin()
	case CallbackView:
		return m.renderCallback()
	case WizardView:
		return m.renderWizard()
	case DashboardView:
		return m.renderDashboard()
	default:
		return ""
	}
}

func (m *Model) renderErr() string {
	if m.err == nil {
		return ""
	}
	return "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
}

func (m *Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	return "\n" + styles.warn.Render(m.notice) + "\n"
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("🎧 Podcast Agent"))
	b.WriteString("\n")
	b.WriteString("Your personal podcast curator. Connect Spotify and tell the agent what you like;\n")
	b.WriteString("it finds new episodes and queues them for you.\n")

	if msg := LoginErrorMessage(m.loginErr); msg != "" {
		b.WriteString("\n" + styles.err.Render(msg) + "\n")
	}
	b.WriteString(m.renderErr())

	if m.loginActive {
		fmt.Fprintf(&b, "\n%s Contacting the agent…\n", m.spinner.View())
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.login, m.keys.quit}))
	return b.String()
}

func (m *Model) renderCallback() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Connect Spotify"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s Waiting for you to approve access in the browser…\n\n", m.spinner.View())

	switch {
	case m.login.opened:
		b.WriteString(styles.muted.Render("Your browser should have opened. If not, visit:") + "\n")
	case m.login.copied:
		b.WriteString(styles.warn.Render("Could not open a browser. The link was copied to your clipboard:") + "\n")
	default:
		b.WriteString(styles.warn.Render("Could not open a browser. Visit this link to continue:") + "\n")
	}
	b.WriteString(m.login.url + "\n")

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.cancel, m.keys.quit}))
	return b.String()
}

func progressBar(percent int) string {
	filled := progressWidth * percent / 100
	return styles.bar.Render(strings.Repeat("█", filled)) + styles.muted.Render(strings.Repeat("░", progressWidth-filled))
}

func (m *Model) renderWizard() string {
	step := m.wiz.Step()
	var b strings.Builder

	b.WriteString(styles.title.Render("Set up your podcast agent"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Step %d of %d  %s %d%%\n\n", step, wizard.NumSteps, progressBar(m.wiz.Progress()), m.wiz.Progress())
	b.WriteString(styles.ok.Render(step.Title()) + "  " + styles.subtitle.Render(step.Subtitle()) + "\n\n")

	var body string
	switch step {
	case wizard.StepTopics:
		body = m.renderTopics()
	case wizard.StepShows:
		body = m.renderShows()
	case wizard.StepDuration:
		body = m.renderDuration()
	case wizard.StepNotifications:
		body = m.renderNotifications()
	}

	summary := styles.panel.Render("Your selections\n" + strings.TrimRight(string(formatter.Summary(m.wiz.Summary())), "\n"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, body, "   ", summary))
	b.WriteString("\n")

	b.WriteString(m.renderNotice())
	b.WriteString(m.renderErr())
	if m.submitting {
		fmt.Fprintf(&b, "\n%s Saving your preferences…\n", m.spinner.View())
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.wizardHelp()))
	return b.String()
}

func (m *Model) wizardHelp() []key.Binding {
	if m.inputActive {
		return []key.Binding{m.keys.enter, m.keys.cancel}
	}
	bindings := []key.Binding{m.keys.up, m.keys.down, m.keys.toggle}
	switch m.wiz.Step() {
	case wizard.StepTopics:
		bindings = append(bindings, m.keys.add)
	case wizard.StepDuration:
		bindings = append(bindings, m.keys.left, m.keys.right)
	}
	if !m.wiz.IsFirst() {
		bindings = append(bindings, m.keys.back)
	}
	if m.wiz.IsLast() {
		bindings = append(bindings, m.keys.submit)
	} else {
		bindings = append(bindings, m.keys.next)
	}
	return append(bindings, m.keys.quit)
}

func (m *Model) item(i int, label string, selected bool) string {
	mark := "[ ]"
	if selected {
		mark = styles.chosen.Render("[✓]")
	}
	line := mark + " " + label
	if i == m.cursor && !m.inputActive {
		return styles.cursor.Render("›") + " " + line
	}
	return "  " + line
}

func (m *Model) renderTopics() string {
	ed := m.topics()
	var b strings.Builder

	for i, t := range models.PopularTopics {
		cell := m.item(i, t.Emoji+" "+t.Name, ed.Selected(t.Name))
		b.WriteString(lipgloss.NewStyle().Width(32).Render(cell))
		if (i+1)%topicColumns == 0 {
			b.WriteString("\n")
		}
	}

	if custom := ed.Custom(); len(custom) > 0 {
		b.WriteString("\nCustom topics:\n")
		for j, t := range custom {
			b.WriteString(m.item(len(models.PopularTopics)+j, t, true) + "\n")
		}
	}

	b.WriteString("\n" + m.topicInput.View() + "\n")
	return b.String()
}

func (m *Model) renderShows() string {
	ed := m.shows()
	var b strings.Builder

	b.WriteString(m.searchInput.View() + "\n\n")

	switch {
	case m.search.Searching:
		fmt.Fprintf(&b, "%s Searching…\n", m.spinner.View())
	case m.search.Err != "":
		b.WriteString(styles.err.Render(m.search.Err) + "\n")
	case m.search.Query != "" && len(m.search.Results) == 0:
		b.WriteString(styles.muted.Render("No shows found.") + "\n")
	case m.search.Query == "":
		b.WriteString(styles.muted.Render("Featured shows") + "\n")
	}

	if !m.search.Searching {
		for i, s := range m.showChoices() {
			label := s.Name
			if s.Description != "" {
				label += styles.muted.Render(" · " + s.Description)
			}
			b.WriteString(m.item(i, label, ed.Selected(s.ID)) + "\n")
		}
	}

	if d := m.wiz.Draft(); len(d.Shows) > 0 {
		b.WriteString("\nSelected:\n")
		for _, s := range d.Shows {
			b.WriteString("  • " + s.Name + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderDuration() string {
	ed := m.duration()
	current, hasPreset := ed.CurrentPreset()
	var b strings.Builder

	for i, p := range models.DurationPresets {
		label := fmt.Sprintf("%s %s (%s) %s", p.Icon, p.Name, formatter.DurationRange(p.Range.Min, p.Range.Max), styles.muted.Render(p.Description))
		b.WriteString(m.item(i, label, hasPreset && current.Name == p.Name) + "\n")
	}

	r := ed.Range()
	b.WriteString("\nCustom range\n")
	b.WriteString(m.slider(len(models.DurationPresets), "Minimum", r.Min, models.MinDurationSlider) + "\n")
	b.WriteString(m.slider(len(models.DurationPresets)+1, "Maximum", r.Max, models.MaxDurationSlider) + "\n")

	if ed.InvalidRange() {
		b.WriteString("\n" + styles.warn.Render("⚠ Minimum should be shorter than maximum.") + "\n")
	}
	return b.String()
}

func (m *Model) slider(row int, label string, v int, s models.Slider) string {
	const width = 20
	pos := 0
	if s.Hi > s.Lo {
		pos = (v - s.Lo) * width / (s.Hi - s.Lo)
	}
	pos = max(0, min(width, pos))
	track := strings.Repeat("─", pos) + "●" + strings.Repeat("─", width-pos)
	line := fmt.Sprintf("%-8s %s %s", label, styles.bar.Render(track), strconv.Itoa(v)+" min")
	if row == m.cursor {
		return styles.cursor.Render("›") + " " + line
	}
	return "  " + line
}

func (m *Model) renderNotifications() string {
	ed := m.notifications()
	settings := ed.Settings()
	var b strings.Builder

	b.WriteString(m.item(rowEmailEnabled, "Send me email updates", settings.Enabled) + "\n")
	if !settings.Enabled {
		b.WriteString("\n" + styles.muted.Render("You can turn this on later.") + "\n")
		return b.String()
	}

	addr := settings.Address
	if m.emailInput.Focused() {
		addr = m.emailInput.View()
	} else if addr == "" {
		addr = styles.muted.Render("(no address)")
	}
	prefix := "  "
	if m.cursor == rowEmailAddress && !m.inputActive {
		prefix = styles.cursor.Render("›") + " "
	}
	b.WriteString(prefix + "Email: " + addr + "\n\n")

	for i, n := range models.Notifications {
		label := fmt.Sprintf("%s %s", n.Name, styles.muted.Render("· "+n.Frequency))
		b.WriteString(m.item(rowFirstKind+i, label, settings.Kind(n.Kind)) + "\n")
		b.WriteString("      " + styles.muted.Render(n.Description) + "\n")
	}
	return b.String()
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	title := "Your Podcast Agent"
	if m.state.User != nil && m.state.User.DisplayName != "" {
		title = fmt.Sprintf("Welcome back, %s", m.state.User.DisplayName)
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if m.loading {
		fmt.Fprintf(&b, "%s Loading your dashboard…\n", m.spinner.View())
		return b.String()
	}

	weekly := dashboard.Unknown
	if n, ok := m.board.EpisodesThisWeek(); ok {
		weekly = strconv.Itoa(n)
	}
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.panel.Render("Last run\n"+styles.ok.Render(m.board.LastRun())),
		" ",
		styles.panel.Render("This week\n"+styles.ok.Render(weekly)),
		" ",
		styles.panel.Render("Queue\n"+styles.ok.Render(m.board.QueueDuration())),
	)
	b.WriteString(stats + "\n")

	prefs, placeholder := m.board.Preferences()
	heading := "Preferences"
	if placeholder {
		heading += styles.muted.Render(" (example)")
	}
	b.WriteString("\n" + heading + "\n")
	b.Write(formatter.PreferencesToText(prefs))

	b.WriteString("\n")
	switch m.board.Episodes.State {
	case dashboard.Err:
		b.WriteString(styles.err.Render("Unable to load recent episodes.") + "\n")
	default:
		if len(m.board.RecentEpisodes()) == 0 {
			b.WriteString(styles.muted.Render("No episodes yet. The agent will add some after its next run.") + "\n")
		} else {
			b.WriteString(m.episodes.View() + "\n")
		}
	}

	if m.board.Degraded() {
		b.WriteString(styles.warn.Render("Some data could not be loaded. Press r to retry.") + "\n")
	}
	b.WriteString(m.renderNotice())
	b.WriteString(m.renderErr())

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.refresh, m.keys.edit, m.keys.logout, m.keys.quit}))
	return b.String()
}
