package wizard

import "github.com/desertthunder/podx/internal/models"

// Step is a 1-based wizard position.
type Step int

const (
	StepTopics Step = iota + 1
	StepShows
	StepDuration
	StepNotifications
)

// NumSteps is the number of wizard steps.
const NumSteps = int(StepNotifications)

// Steps lists every step in order.
var Steps = []Step{StepTopics, StepShows, StepDuration, StepNotifications}

func (s Step) String() string {
	switch s {
	case StepTopics:
		return "topics"
	case StepShows:
		return "shows"
	case StepDuration:
		return "duration"
	case StepNotifications:
		return "notifications"
	default:
		return "unknown"
	}
}

// Title is the step's short heading.
func (s Step) Title() string {
	switch s {
	case StepTopics:
		return "Topics"
	case StepShows:
		return "Shows"
	case StepDuration:
		return "Duration"
	case StepNotifications:
		return "Notifications"
	}
	return ""
}

// Subtitle is the step's prompt.
func (s Step) Subtitle() string {
	switch s {
	case StepTopics:
		return "What interests you?"
	case StepShows:
		return "Any favorite podcasts?"
	case StepDuration:
		return "How long should episodes be?"
	case StepNotifications:
		return "Stay updated with email?"
	}
	return ""
}

// CanProceed is the gating predicate for leaving step with draft d.
//
// The duration step checks only that both bounds are set. An inverted range still proceeds;
// [DurationEditor.InvalidRange] reports it as a warning.
func CanProceed(step Step, d models.Draft) bool {
	switch step {
	case StepTopics:
		return len(d.Topics) >= 1
	case StepShows:
		return true
	case StepDuration:
		return d.Duration.Present()
	case StepNotifications:
		return true
	default:
		return false
	}
}
