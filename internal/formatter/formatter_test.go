package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/wizard"
)

func loadedDashboard() dashboard.Dashboard {
	var d dashboard.Dashboard
	d.Status.Settle(&models.Status{
		LastRun:          "2 hours ago",
		EpisodesThisWeek: 12,
		QueueDuration:    "4h 25m",
		Preferences: &models.PreferencesRecord{
			Topics:       []string{"AI", "History"},
			Shows:        []models.Show{{ID: "pivot", Name: "Pivot"}},
			MinDuration:  20,
			MaxDuration:  60,
			EmailEnabled: true,
			EmailAddress: "me@example.com",
		},
	}, nil)
	d.Episodes.Settle([]models.Episode{
		{ID: "e1", Name: "Scaling Laws", ShowName: "Lex Fridman Podcast", Duration: "2h 10m", RelevanceScore: 0.92, SpotifyURL: "https://open.spotify.com/episode/e1"},
		{ID: "e2", Name: "Weekly Roundup", ShowName: "Pivot", Duration: "58m"},
	}, nil)
	return d
}

func failedDashboard() dashboard.Dashboard {
	var d dashboard.Dashboard
	d.Status.Settle(nil, errors.New("status down"))
	d.Episodes.Settle(nil, errors.New("episodes down"))
	return d
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"", Text},
		{"TEXT", Text},
		{"md", Markdown},
		{"markdown", Markdown},
		{"json", JSON},
		{"csv", CSV},
	}
	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDashboardFormats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out := string(DashboardToText(loadedDashboard()))

		for _, want := range []string{"2 hours ago", "12", "4h 25m", "AI, History", "Pivot", "20m – 1h", "on (me@example.com)", "1. Lex Fridman Podcast - Scaling Laws [2h 10m]"} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q\n%s", want, out)
			}
		}
		if strings.Contains(out, "(example)") {
			t.Error("stored preferences should not be marked as example")
		}
	})

	t.Run("text degraded", func(t *testing.T) {
		out := string(DashboardToText(failedDashboard()))

		if !strings.Contains(out, "Last run:           —") {
			t.Errorf("expected unknown last run\n%s", out)
		}
		if !strings.Contains(out, "Preferences (example)") {
			t.Errorf("expected placeholder preferences\n%s", out)
		}
		if !strings.Contains(out, "Technology, Business, AI") {
			t.Errorf("expected placeholder topics\n%s", out)
		}
		if !strings.Contains(out, "Unable to load recent episodes") {
			t.Errorf("expected episode error\n%s", out)
		}
	})

	t.Run("text with no episodes", func(t *testing.T) {
		d := loadedDashboard()
		d.Episodes.Settle([]models.Episode{}, nil)

		if out := string(DashboardToText(d)); !strings.Contains(out, "No episodes yet") {
			t.Errorf("expected empty state\n%s", out)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		out := string(DashboardToMarkdown(loadedDashboard()))

		if !strings.Contains(out, "| 2 hours ago | 12 | 4h 25m |") {
			t.Errorf("markdown missing status row\n%s", out)
		}
		if !strings.Contains(out, "[Scaling Laws](https://open.spotify.com/episode/e1)") {
			t.Errorf("markdown missing episode link\n%s", out)
		}
		if !strings.Contains(out, "**Pivot** - Weekly Roundup (58m)") {
			t.Errorf("markdown missing unlinked episode\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		data, err := Dashboard(failedDashboard(), JSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var v DashboardView
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if v.LastRun != nil || v.EpisodesThisWeek != nil {
			t.Errorf("missing status should be null, got %+v", v)
		}
		if !v.PlaceholderPrefs || v.StatusError == "" || v.EpisodesError == "" {
			t.Errorf("expected degraded markers, got %+v", v)
		}
		if v.Episodes == nil {
			t.Error("episodes should be an empty list, not null")
		}
	})

	t.Run("csv renders episodes", func(t *testing.T) {
		data, err := Dashboard(loadedDashboard(), CSV)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(lines))
		}
		if lines[0] != "ID,Show,Name,Duration,Relevance,Added,URL" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "e1,Lex Fridman Podcast,Scaling Laws,2h 10m,0.92,") {
			t.Errorf("unexpected row %q", lines[1])
		}
	})
}

func TestEpisodes(t *testing.T) {
	out, err := Episodes(nil, Text)
	if err != nil || string(out) != "No episodes yet.\n" {
		t.Errorf("unexpected empty text %q %v", out, err)
	}

	out, err = Episodes(nil, JSON)
	if err != nil || strings.TrimSpace(string(out)) != "[]" {
		t.Errorf("expected empty JSON list, got %q %v", out, err)
	}
}

func TestSummary(t *testing.T) {
	t.Run("before the duration step", func(t *testing.T) {
		out := string(Summary(wizard.Summary{Topics: 1, Shows: 0}))
		if out != "1 topic selected\n0 shows selected\n" {
			t.Errorf("unexpected summary %q", out)
		}
	})

	t.Run("after the duration step", func(t *testing.T) {
		out := string(Summary(wizard.Summary{Topics: 3, Shows: 2, Duration: &models.Duration{Min: 15, Max: 120}}))
		if !strings.Contains(out, "15m – 2h episodes") {
			t.Errorf("unexpected summary %q", out)
		}
	})
}

func TestDraftToText(t *testing.T) {
	d := models.NewDraft("me@example.com")
	d.Email.Enabled = true
	d.Email.Weekly = true

	out := string(DraftToText(d))
	if !strings.Contains(out, "Topics:   none") {
		t.Errorf("expected no topics\n%s", out)
	}
	if !strings.Contains(out, "Digests:  Weekly Digest") {
		t.Errorf("expected weekly digest\n%s", out)
	}
}
