// package formatter renders dashboard data, preferences, and wizard progress as text, Markdown, CSV, or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/wizard"
)

// Format names an output encoding.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
	CSV      Format = "csv"
)

// ParseFormat accepts a format name (case-insensitive, "md" for Markdown). Empty means [Text].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// DurationRange renders a duration range as "15m – 2h".
func DurationRange(minutes, maxMinutes int) string {
	return fmt.Sprintf("%s – %s", shared.FormatMinutes(minutes), shared.FormatMinutes(maxMinutes))
}

func weeklyCount(d dashboard.Dashboard) string {
	if n, ok := d.EpisodesThisWeek(); ok {
		return strconv.Itoa(n)
	}
	return dashboard.Unknown
}

func showNames(shows []models.Show) []string {
	names := make([]string, 0, len(shows))
	for _, s := range shows {
		names = append(names, s.Name)
	}
	return names
}

func emailLine(p models.PreferencesRecord) string {
	if !p.EmailEnabled {
		return "off"
	}
	if p.EmailAddress == "" {
		return "on"
	}
	return "on (" + p.EmailAddress + ")"
}

// DashboardToText renders the dashboard for a terminal.
func DashboardToText(d dashboard.Dashboard) []byte {
	var buf bytes.Buffer

	buf.WriteString("Agent Status\n")
	fmt.Fprintf(&buf, "  Last run:           %s\n", d.LastRun())
	fmt.Fprintf(&buf, "  Episodes this week: %s\n", weeklyCount(d))
	fmt.Fprintf(&buf, "  Queue duration:     %s\n", d.QueueDuration())
	if d.Status.State == dashboard.Err {
		buf.WriteString("  (status unavailable)\n")
	}

	prefs, placeholder := d.Preferences()
	buf.WriteString("\nPreferences")
	if placeholder {
		buf.WriteString(" (example)")
	}
	buf.WriteString("\n")
	buf.Write(PreferencesToText(prefs))

	buf.WriteString("\nRecent Episodes\n")
	buf.Write(episodesBody(d))

	return buf.Bytes()
}

func episodesBody(d dashboard.Dashboard) []byte {
	switch d.Episodes.State {
	case dashboard.Err:
		return []byte("  Unable to load recent episodes.\n")
	case dashboard.Pending:
		return []byte("  Loading…\n")
	}
	episodes := d.RecentEpisodes()
	if len(episodes) == 0 {
		return []byte("  No episodes yet. The agent will add some after its next run.\n")
	}
	return EpisodesToText(episodes)
}

// PreferencesToText renders a preference record as indented lines.
func PreferencesToText(p models.PreferencesRecord) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "  Topics:   %s\n", joinOrNone(p.Topics))
	fmt.Fprintf(&buf, "  Shows:    %s\n", joinOrNone(showNames(p.Shows)))
	fmt.Fprintf(&buf, "  Duration: %s\n", DurationRange(p.MinDuration, p.MaxDuration))
	fmt.Fprintf(&buf, "  Email:    %s\n", emailLine(p))
	return buf.Bytes()
}

// EpisodesToText renders a numbered episode list.
func EpisodesToText(episodes []models.Episode) []byte {
	var buf bytes.Buffer
	for i, e := range episodes {
		fmt.Fprintf(&buf, "%d. %s - %s", i+1, e.ShowName, e.Name)
		if e.Duration != "" {
			fmt.Fprintf(&buf, " [%s]", e.Duration)
		}
		buf.WriteString("\n")
		if e.SpotifyURL != "" {
			fmt.Fprintf(&buf, "   %s\n", e.SpotifyURL)
		}
	}
	return buf.Bytes()
}

// DashboardToMarkdown renders the dashboard as a Markdown document.
func DashboardToMarkdown(d dashboard.Dashboard) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Podcast Agent\n\n")
	buf.WriteString("## Status\n\n")
	buf.WriteString("| Last run | Episodes this week | Queue |\n")
	buf.WriteString("|---|---|---|\n")
	fmt.Fprintf(&buf, "| %s | %s | %s |\n\n", d.LastRun(), weeklyCount(d), d.QueueDuration())

	prefs, placeholder := d.Preferences()
	buf.WriteString("## Preferences\n\n")
	if placeholder {
		buf.WriteString("_Example preferences. Nothing has been saved yet._\n\n")
	}
	fmt.Fprintf(&buf, "**Topics**: %s\n\n", joinOrNone(prefs.Topics))
	fmt.Fprintf(&buf, "**Shows**: %s\n\n", joinOrNone(showNames(prefs.Shows)))
	fmt.Fprintf(&buf, "**Duration**: %s\n\n", DurationRange(prefs.MinDuration, prefs.MaxDuration))
	fmt.Fprintf(&buf, "**Email**: %s\n\n", emailLine(prefs))

	buf.WriteString("## Recent Episodes\n\n")
	if d.Episodes.State == dashboard.Err {
		buf.WriteString("_Unable to load recent episodes._\n")
		return buf.Bytes()
	}
	buf.Write(EpisodesToMarkdown(d.RecentEpisodes()))
	return buf.Bytes()
}

// EpisodesToMarkdown renders episodes as a Markdown list, linking to Spotify when possible.
func EpisodesToMarkdown(episodes []models.Episode) []byte {
	if len(episodes) == 0 {
		return []byte("_No episodes yet._\n")
	}
	var buf bytes.Buffer
	for i, e := range episodes {
		title := e.Name
		if e.SpotifyURL != "" {
			title = fmt.Sprintf("[%s](%s)", e.Name, e.SpotifyURL)
		}
		fmt.Fprintf(&buf, "%d. **%s** - %s", i+1, e.ShowName, title)
		if e.Duration != "" {
			fmt.Fprintf(&buf, " (%s)", e.Duration)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// EpisodesToCSV converts episodes to CSV with columns: ID, Show, Name, Duration, Relevance, Added, URL
func EpisodesToCSV(episodes []models.Episode) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Show", "Name", "Duration", "Relevance", "Added", "URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range episodes {
		record := []string{
			e.ID,
			e.ShowName,
			e.Name,
			e.Duration,
			strconv.FormatFloat(e.RelevanceScore, 'f', -1, 64),
			e.AddedAt,
			e.SpotifyURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// DashboardView is the JSON shape of a dashboard. Missing status fields are null.
type DashboardView struct {
	LastRun          *string                  `json:"lastRun"`
	EpisodesThisWeek *int                     `json:"episodesThisWeek"`
	QueueDuration    *string                  `json:"queueDuration"`
	Preferences      models.PreferencesRecord `json:"preferences"`
	PlaceholderPrefs bool                     `json:"placeholderPreferences"`
	Episodes         []models.Episode         `json:"episodes"`
	StatusError      string                   `json:"statusError,omitempty"`
	EpisodesError    string                   `json:"episodesError,omitempty"`
}

// NewDashboardView flattens the two slots.
func NewDashboardView(d dashboard.Dashboard) DashboardView {
	prefs, placeholder := d.Preferences()
	v := DashboardView{
		Preferences:      prefs,
		PlaceholderPrefs: placeholder,
		Episodes:         d.RecentEpisodes(),
	}
	if v.Episodes == nil {
		v.Episodes = []models.Episode{}
	}
	if d.Status.State == dashboard.Ok && d.Status.Value != nil {
		s := d.Status.Value
		v.LastRun, v.QueueDuration = &s.LastRun, &s.QueueDuration
		v.EpisodesThisWeek = &s.EpisodesThisWeek
	}
	if d.Status.Err != nil {
		v.StatusError = d.Status.Err.Error()
	}
	if d.Episodes.Err != nil {
		v.EpisodesError = d.Episodes.Err.Error()
	}
	return v
}

// ToJSON marshals v, indenting when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Dashboard renders d in the given format. CSV renders only the episode list.
func Dashboard(d dashboard.Dashboard, f Format) ([]byte, error) {
	switch f {
	case Text:
		return DashboardToText(d), nil
	case Markdown:
		return DashboardToMarkdown(d), nil
	case JSON:
		return ToJSON(NewDashboardView(d), true)
	case CSV:
		return EpisodesToCSV(d.RecentEpisodes())
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// Episodes renders an episode list in the given format.
func Episodes(episodes []models.Episode, f Format) ([]byte, error) {
	switch f {
	case Text:
		if len(episodes) == 0 {
			return []byte("No episodes yet.\n"), nil
		}
		return EpisodesToText(episodes), nil
	case Markdown:
		return EpisodesToMarkdown(episodes), nil
	case JSON:
		if episodes == nil {
			episodes = []models.Episode{}
		}
		return ToJSON(episodes, true)
	case CSV:
		return EpisodesToCSV(episodes)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// Summary renders the wizard's "selections so far" panel as one line per item.
func Summary(s wizard.Summary) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %s selected\n", s.Topics, shared.Pluralize(s.Topics, "topic"))
	fmt.Fprintf(&buf, "%d %s selected\n", s.Shows, shared.Pluralize(s.Shows, "show"))
	if s.Duration != nil {
		fmt.Fprintf(&buf, "%s episodes\n", DurationRange(s.Duration.Min, s.Duration.Max))
	}
	return buf.Bytes()
}

// DraftToText renders a full draft for review before submission.
func DraftToText(d models.Draft) []byte {
	var buf bytes.Buffer
	buf.Write(PreferencesToText(d.ToRecord()))
	if d.Email.Enabled {
		var kinds []string
		for _, n := range models.Notifications {
			if d.Email.Kind(n.Kind) {
				kinds = append(kinds, n.Name)
			}
		}
		fmt.Fprintf(&buf, "  Digests:  %s\n", joinOrNone(kinds))
	}
	return buf.Bytes()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
