package wizard

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

// Submitter persists the finished preference record.
type Submitter interface {
	SavePreferences(ctx context.Context, req models.SavePreferencesRequest) error
}

// OnChange receives draft edits from a step editor.
type OnChange func(models.Patch)

// Wizard is the onboarding state machine. It is safe for concurrent use.
type Wizard struct {
	mu        sync.Mutex
	step      Step
	draft     models.Draft
	userID    string
	submitter Submitter
	logger    *log.Logger
	inFlight  bool
	finished  bool
	lastErr   error
}

// Option configures a [Wizard].
type Option func(*Wizard)

// WithLogger sets the wizard's logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

// WithDraft starts the wizard from an existing draft instead of the defaults.
func WithDraft(d models.Draft) Option {
	return func(w *Wizard) { w.draft = d.Clone() }
}

// New starts a wizard for user at the first step with a default draft seeded with the user's email.
func New(user models.User, submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{
		step:      StepTopics,
		draft:     models.NewDraft(user.Email),
		userID:    user.ID,
		submitter: submitter,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() models.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// CanProceed reports whether the current step's gate is open.
func (w *Wizard) CanProceed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return CanProceed(w.step, w.draft)
}

// IsFirst reports whether the wizard is on the first step.
func (w *Wizard) IsFirst() bool { return w.Step() == StepTopics }

// IsLast reports whether the wizard is on the last step.
func (w *Wizard) IsLast() bool { return w.Step() == StepNotifications }

// Next advances one step. It reports false, changing nothing, when the gate is closed, on the last step,
// or while a submission is in flight.
func (w *Wizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished || w.inFlight || int(w.step) >= NumSteps || !CanProceed(w.step, w.draft) {
		return false
	}
	w.step++
	w.logger.Debug("wizard next", "step", w.step)
	return true
}

// Back moves one step back. It reports false on the first step, while a submission is in flight,
// or once finished.
func (w *Wizard) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished || w.inFlight || w.step <= StepTopics {
		return false
	}
	w.step--
	w.logger.Debug("wizard back", "step", w.step)
	return true
}

// Update replaces the draft fields named by p. The draft is frozen while a submission is in flight.
func (w *Wizard) Update(p models.Patch) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.finished:
		return shared.ErrWizardFinished
	case w.inFlight:
		return shared.ErrSubmitInFlight
	}
	w.draft = w.draft.Apply(p)
	w.logger.Debug("draft updated", "fields", p.Fields())
	return nil
}

// OnChange returns a callback that applies editor patches to this wizard.
func (w *Wizard) OnChange() OnChange {
	return func(p models.Patch) {
		if err := w.Update(p); err != nil {
			w.logger.Warn("discarded draft edit", "fields", p.Fields(), "error", err)
		}
	}
}

// Request builds the wire record for the current draft.
func (w *Wizard) Request() models.SavePreferencesRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.request()
}

func (w *Wizard) request() models.SavePreferencesRequest {
	return models.SavePreferencesRequest{UserID: w.userID, Preferences: w.draft.ToRecord()}
}

// Submit sends the draft as a single request.
//
// It is allowed only on the last step with its gate open. While a submission is in flight further calls
// return [shared.ErrSubmitInFlight]. Success finishes the wizard; failure wraps [shared.ErrSubmitFailed]
// and leaves the draft and step unchanged.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.finished:
		w.mu.Unlock()
		return shared.ErrWizardFinished
	case w.inFlight:
		w.mu.Unlock()
		return shared.ErrSubmitInFlight
	case w.step != StepNotifications || !CanProceed(w.step, w.draft):
		w.mu.Unlock()
		return fmt.Errorf("%w: on step %d of %d", shared.ErrSubmitNotAllowed, w.step, NumSteps)
	}
	w.inFlight = true
	w.lastErr = nil
	req := w.request()
	w.mu.Unlock()

	w.logger.Info("submitting preferences", "user_id", req.UserID, "topics", len(req.Preferences.Topics), "shows", len(req.Preferences.Shows))
	err := w.submitter.SavePreferences(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false

	if err != nil {
		w.lastErr = fmt.Errorf("%w: %w", shared.ErrSubmitFailed, err)
		w.logger.Error("failed to save preferences", "error", err)
		return w.lastErr
	}

	w.finished = true
	w.logger.Info("preferences saved", "user_id", req.UserID)
	return nil
}

// Submitting reports whether a submission is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Finished reports whether a submission succeeded.
func (w *Wizard) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

// Err returns the last submission failure, cleared when a new submission starts.
func (w *Wizard) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Progress is the completion percentage shown in the progress bar.
func (w *Wizard) Progress() int {
	return Progress(w.Step())
}

// Progress returns round(step/N*100).
func Progress(step Step) int {
	return int(math.Round(float64(step) / float64(NumSteps) * 100))
}

// Summary counts the selections made so far.
type Summary struct {
	Topics int
	Shows  int
	// Duration is set once the user has moved past the duration step.
	Duration *models.Duration
}

// Summary returns the "selections so far" panel contents.
func (w *Wizard) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Summary{Topics: len(w.draft.Topics), Shows: len(w.draft.Shows)}
	if w.step > StepDuration {
		d := w.draft.Duration
		s.Duration = &d
	}
	return s
}
