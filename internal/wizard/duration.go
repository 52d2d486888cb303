package wizard

import "github.com/desertthunder/podx/internal/models"

// DurationEditor edits the duration range of a draft snapshot.
type DurationEditor struct {
	draft    models.Draft
	onChange OnChange
}

// Duration builds the duration step editor.
func Duration(d models.Draft, onChange OnChange) DurationEditor {
	return DurationEditor{draft: d, onChange: onChange}
}

// Range returns the draft's current range.
func (e DurationEditor) Range() models.Duration {
	return e.draft.Duration
}

// SelectPreset replaces the range with the preset's.
func (e DurationEditor) SelectPreset(p models.DurationPreset) {
	e.onChange(models.DurationPatch(p.Range))
}

// SetMin sets the lower bound, clamped to [models.MinDurationSlider].
func (e DurationEditor) SetMin(n int) {
	d := e.draft.Duration
	d.Min = models.MinDurationSlider.Clamp(n)
	e.onChange(models.DurationPatch(d))
}

// SetMax sets the upper bound, clamped to [models.MaxDurationSlider].
func (e DurationEditor) SetMax(n int) {
	d := e.draft.Duration
	d.Max = models.MaxDurationSlider.Clamp(n)
	e.onChange(models.DurationPatch(d))
}

// StepMin moves the lower bound by delta slider steps.
func (e DurationEditor) StepMin(delta int) {
	e.SetMin(e.draft.Duration.Min + delta*models.MinDurationSlider.Step)
}

// StepMax moves the upper bound by delta slider steps.
func (e DurationEditor) StepMax(delta int) {
	e.SetMax(e.draft.Duration.Max + delta*models.MaxDurationSlider.Step)
}

// CurrentPreset returns the preset matching the range exactly, if any.
func (e DurationEditor) CurrentPreset() (models.DurationPreset, bool) {
	for _, p := range models.DurationPresets {
		if p.Range == e.draft.Duration {
			return p, true
		}
	}
	return models.DurationPreset{}, false
}

// InvalidRange reports the min >= max warning. It does not block navigation.
func (e DurationEditor) InvalidRange() bool {
	return e.draft.Duration.Inverted()
}
