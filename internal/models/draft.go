package models

import (
	"slices"
	"strings"
)

// Default duration range, in minutes, for a fresh draft.
const (
	DefaultMinDuration = 15
	DefaultMaxDuration = 120
)

// Show is a podcast the user wants the agent to follow.
type Show struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image"`
}

// Duration is an episode length range in whole minutes.
type Duration struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Present reports whether both bounds are set (non-zero).
func (d Duration) Present() bool {
	return d.Min != 0 && d.Max != 0
}

// Inverted reports whether the range is empty or backwards.
func (d Duration) Inverted() bool {
	return d.Min >= d.Max
}

// NotificationKind names one of the email digests.
type NotificationKind string

const (
	NotifyDaily   NotificationKind = "daily"
	NotifyWeekly  NotificationKind = "weekly"
	NotifyInstant NotificationKind = "instant"
)

// EmailSettings holds the notification step's state.
type EmailSettings struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
	Daily   bool   `json:"daily"`
	Weekly  bool   `json:"weekly"`
	Instant bool   `json:"instant"`
}

// Kind returns whether the given digest is switched on.
func (e EmailSettings) Kind(k NotificationKind) bool {
	switch k {
	case NotifyDaily:
		return e.Daily
	case NotifyWeekly:
		return e.Weekly
	case NotifyInstant:
		return e.Instant
	}
	return false
}

// WithKind returns a copy with the given digest set to on.
func (e EmailSettings) WithKind(k NotificationKind, on bool) EmailSettings {
	switch k {
	case NotifyDaily:
		e.Daily = on
	case NotifyWeekly:
		e.Weekly = on
	case NotifyInstant:
		e.Instant = on
	}
	return e
}

// Draft is the preference document edited by the wizard.
type Draft struct {
	Topics   []string      `json:"topics"`
	Shows    []Show        `json:"shows"`
	Duration Duration      `json:"duration"`
	Email    EmailSettings `json:"email"`
}

// NewDraft returns a draft with default values, seeding the email address.
func NewDraft(email string) Draft {
	return Draft{
		Topics:   []string{},
		Shows:    []Show{},
		Duration: Duration{Min: DefaultMinDuration, Max: DefaultMaxDuration},
		Email:    EmailSettings{Address: email},
	}
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	d.Topics = cloneTopics(d.Topics)
	d.Shows = cloneShows(d.Shows)
	return d
}

// HasTopic reports whether name is selected (case-sensitive).
func (d Draft) HasTopic(name string) bool {
	return slices.Contains(d.Topics, name)
}

// HasShow reports whether a show with id is selected.
func (d Draft) HasShow(id string) bool {
	return slices.ContainsFunc(d.Shows, func(s Show) bool { return s.ID == id })
}

// Patch is a shallow partial update built with [TopicsPatch], [ShowsPatch], [DurationPatch] and [EmailPatch].
//
// Fields the patch names replace the whole top-level value; unnamed fields are left untouched.
type Patch struct {
	topics    []string
	shows     []Show
	duration  *Duration
	email     *EmailSettings
	setTopics bool
	setShows  bool
}

// TopicsPatch replaces the topic list.
//
// Blank entries and duplicates are dropped so the draft never holds them.
func TopicsPatch(topics []string) Patch {
	clean := make([]string, 0, len(topics))
	for _, t := range topics {
		if strings.TrimSpace(t) == "" || slices.Contains(clean, t) {
			continue
		}
		clean = append(clean, t)
	}
	return Patch{topics: clean, setTopics: true}
}

// ShowsPatch replaces the show list, keeping the first entry for each id.
func ShowsPatch(shows []Show) Patch {
	clean := make([]Show, 0, len(shows))
	for _, s := range shows {
		if slices.ContainsFunc(clean, func(c Show) bool { return c.ID == s.ID }) {
			continue
		}
		clean = append(clean, s)
	}
	return Patch{shows: clean, setShows: true}
}

// DurationPatch replaces the duration range.
func DurationPatch(d Duration) Patch {
	return Patch{duration: &d}
}

// EmailPatch replaces the email settings.
func EmailPatch(e EmailSettings) Patch {
	return Patch{email: &e}
}

// Merge combines p and other; fields named by other win.
func (p Patch) Merge(other Patch) Patch {
	if other.setTopics {
		p.topics, p.setTopics = other.topics, true
	}
	if other.setShows {
		p.shows, p.setShows = other.shows, true
	}
	if other.duration != nil {
		p.duration = other.duration
	}
	if other.email != nil {
		p.email = other.email
	}
	return p
}

// Empty reports whether the patch names no field.
func (p Patch) Empty() bool {
	return !p.setTopics && !p.setShows && p.duration == nil && p.email == nil
}

// Fields lists the top-level draft fields the patch replaces.
func (p Patch) Fields() []string {
	var fields []string
	if p.setTopics {
		fields = append(fields, "topics")
	}
	if p.setShows {
		fields = append(fields, "shows")
	}
	if p.duration != nil {
		fields = append(fields, "duration")
	}
	if p.email != nil {
		fields = append(fields, "email")
	}
	return fields
}

// Apply returns a new draft with the fields named by p replaced.
func (d Draft) Apply(p Patch) Draft {
	next := d.Clone()
	if p.setTopics {
		next.Topics = cloneTopics(p.topics)
	}
	if p.setShows {
		next.Shows = cloneShows(p.shows)
	}
	if p.duration != nil {
		next.Duration = *p.duration
	}
	if p.email != nil {
		next.Email = *p.email
	}
	return next
}

func cloneTopics(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneShows(in []Show) []Show {
	out := make([]Show, len(in))
	copy(out, in)
	return out
}
