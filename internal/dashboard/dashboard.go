// Package dashboard loads the agent status view.
//
// The view is fed by two independent fetches, the status summary and recent episodes. They run
// concurrently and each settles into its own [Slot]; a failure in one never discards the other.
// Missing status data degrades to placeholders rather than failing the view.
package dashboard

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultEpisodeLimit is how many recent episodes the dashboard requests.
const DefaultEpisodeLimit = 5

// Unknown is rendered for status fields the backend did not provide.
const Unknown = "—"

// SlotState is the settlement state of one fetch.
type SlotState int

const (
	Pending SlotState = iota
	Ok
	Err
)

func (s SlotState) String() string {
	switch s {
	case Ok:
		return "ok"
	case Err:
		return "error"
	default:
		return "pending"
	}
}

// Slot holds one independently settled fetch result.
type Slot[T any] struct {
	State SlotState
	Value T
	Err   error
}

// Settle records the outcome of a fetch.
func (s *Slot[T]) Settle(v T, err error) {
	if err != nil {
		var zero T
		s.State, s.Value, s.Err = Err, zero, err
		return
	}
	s.State, s.Value, s.Err = Ok, v, nil
}

// Fetcher is the subset of the backend the dashboard reads.
type Fetcher interface {
	Status(ctx context.Context) (*models.Status, error)
	RecentEpisodes(ctx context.Context, limit int) ([]models.Episode, error)
}

// Dashboard is the joined view of both fetches.
type Dashboard struct {
	Status   Slot[*models.Status]
	Episodes Slot[[]models.Episode]
}

// Loader runs the dashboard fetches.
type Loader struct {
	fetcher Fetcher
	limit   int
	logger  *log.Logger
}

// NewLoader creates a loader requesting limit episodes (the default when limit <= 0).
func NewLoader(f Fetcher, limit int, logger *log.Logger) *Loader {
	if limit <= 0 {
		limit = DefaultEpisodeLimit
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{fetcher: f, limit: limit, logger: logger}
}

// Load issues both fetches concurrently and waits for both to settle.
//
// Failures are logged and recorded in their slot; Load itself never fails.
func (l *Loader) Load(ctx context.Context) Dashboard {
	var d Dashboard
	var g errgroup.Group

	g.Go(func() error {
		status, err := l.fetcher.Status(ctx)
		if err != nil {
			l.logger.Warn("failed to fetch agent status", "error", err)
		}
		d.Status.Settle(status, err)
		return nil
	})

	g.Go(func() error {
		episodes, err := l.fetcher.RecentEpisodes(ctx, l.limit)
		if err != nil {
			l.logger.Warn("failed to fetch recent episodes", "error", err)
		}
		d.Episodes.Settle(episodes, err)
		return nil
	})

	_ = g.Wait()
	return d
}

// Placeholder returns the preferences shown when the backend has none to report.
func Placeholder() models.PreferencesRecord {
	return models.PreferencesRecord{
		Topics: []string{"Technology", "Business", "AI"},
		Shows: []models.Show{
			{Name: "The Tim Ferriss Show"},
			{Name: "Lex Fridman Podcast"},
		},
		MinDuration:  models.DefaultMinDuration,
		MaxDuration:  models.DefaultMaxDuration,
		EmailEnabled: false,
	}
}

func (d Dashboard) status() *models.Status {
	if d.Status.State == Ok && d.Status.Value != nil {
		return d.Status.Value
	}
	return nil
}

// Preferences returns the stored preferences, or [Placeholder] with placeholder=true.
func (d Dashboard) Preferences() (prefs models.PreferencesRecord, placeholder bool) {
	if s := d.status(); s != nil && s.Preferences != nil {
		return *s.Preferences, false
	}
	return Placeholder(), true
}

// LastRun is the last agent run, or [Unknown].
func (d Dashboard) LastRun() string {
	if s := d.status(); s != nil && s.LastRun != "" {
		return s.LastRun
	}
	return Unknown
}

// QueueDuration is the queued listening time, or [Unknown].
func (d Dashboard) QueueDuration() string {
	if s := d.status(); s != nil && s.QueueDuration != "" {
		return s.QueueDuration
	}
	return Unknown
}

// EpisodesThisWeek returns the weekly count and whether the backend reported one.
func (d Dashboard) EpisodesThisWeek() (int, bool) {
	if s := d.status(); s != nil {
		return s.EpisodesThisWeek, true
	}
	return 0, false
}

// RecentEpisodes returns the fetched episodes, empty when the fetch failed or is pending.
func (d Dashboard) RecentEpisodes() []models.Episode {
	if d.Episodes.State == Ok {
		return d.Episodes.Value
	}
	return nil
}

// Degraded reports whether either fetch failed.
func (d Dashboard) Degraded() bool {
	return d.Status.State == Err || d.Episodes.State == Err
}
